package scrape

import (
	"strings"
	"testing"
)

func TestExtractBirthInfo_InfoboxExact(t *testing.T) {
	html := `<html><body>
<table class="infobox">
<tr><th>Doğum</th><td><a href="/wiki/15_Mart">15 Mart</a> 1938<br><a href="/wiki/Ankara">Ankara</a>, <a href="/wiki/T%C3%BCrkiye">Türkiye</a><sup class="reference" id="cite_ref-1">[1]</sup></td></tr>
<tr><th>Parti</th><td>CHP</td></tr>
</table>
<p>Bir Türk siyasetçi hakkında uzun bir giriş paragrafı.</p>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "https://tr.wikipedia.org/wiki/X")
	if info.BirthYear != 1938 {
		t.Errorf("BirthYear = %d, want 1938", info.BirthYear)
	}
	if info.BirthPlace != "Ankara" {
		t.Errorf("BirthPlace = %q, want Ankara", info.BirthPlace)
	}
	if !strings.Contains(info.BirthDate, "1938") {
		t.Errorf("BirthDate = %q", info.BirthDate)
	}
	if strings.Contains(info.BirthDate, "[1]") {
		t.Errorf("reference marker survived: %q", info.BirthDate)
	}
}

func TestExtractBirthInfo_RejectsHijriYear(t *testing.T) {
	html := `<html><body>
<table class="infobox">
<tr><th>Doğum</th><td>1315 (<a href="/wiki/Selanik">Selanik</a>)</td></tr>
</table>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if info.BirthYear != 0 {
		t.Errorf("BirthYear = %d, Hijri 1315 must not parse", info.BirthYear)
	}
	if info.BirthPlace != "Selanik" {
		t.Errorf("BirthPlace = %q, want Selanik", info.BirthPlace)
	}
}

func TestExtractBirthInfo_InfoboxFreeTextFallback(t *testing.T) {
	html := `<html><body>
<table class="infobox">
<tr><th>Doğ.</th><td>12 Nisan 1905 İzmir, Türkiye</td></tr>
</table>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if info.BirthYear != 1905 {
		t.Errorf("BirthYear = %d, want 1905", info.BirthYear)
	}
	if info.BirthPlace != "İzmir" {
		t.Errorf("BirthPlace = %q, want İzmir", info.BirthPlace)
	}
}

func TestExtractBirthInfo_InfoboxLoose(t *testing.T) {
	html := `<html><body>
<table class="infobox">
<tr><th>Doğum tarihi ve yeri</th><td>15 Şubat 1926, Adana, Türkiye</td></tr>
</table>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if info.BirthPlace != "Adana" {
		t.Errorf("BirthPlace = %q, want Adana", info.BirthPlace)
	}
}

func TestExtractBirthInfo_LeadParagraphFallback(t *testing.T) {
	html := `<html><body>
<p></p>
<p>Ahmet Fikri Tüzer (d. 1878, Erzurum), Türk siyasetçi ve bürokrat.</p>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if info.BirthYear != 1878 {
		t.Errorf("BirthYear = %d, want 1878", info.BirthYear)
	}
	if info.BirthPlace != "Erzurum" {
		t.Errorf("BirthPlace = %q, want Erzurum", info.BirthPlace)
	}
}

func TestExtractBirthInfo_BirthCategory(t *testing.T) {
	html := `<html><body>
<p>Kısa.</p>
<div id="catlinks"><a href="/wiki/Kategori:%C4%B0zmir_do%C4%9Fumlular">İzmir doğumlular</a></div>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if info.BirthPlace != "İzmir" {
		t.Errorf("BirthPlace = %q, want İzmir", info.BirthPlace)
	}
}

func TestExtractBirthInfo_TurkishProse(t *testing.T) {
	tests := []struct {
		para, want string
	}{
		{"Siyasetçi olarak bilinen paşa Ankara'da doğdu.", "Ankara"},
		{"Kayıtlara göre doğum yeri: Sivas olarak geçmektedir.", "Sivas"},
		{"Babası gibi kendisi de Trabzon doğumlu bir denizcidir.", "Trabzon"},
	}
	for _, tt := range tests {
		html := "<html><body><p>" + tt.para + "</p></body></html>"
		info := ExtractBirthInfo(docFromHTML(t, html), "")
		if info.BirthPlace != tt.want {
			t.Errorf("para %q: BirthPlace = %q, want %q", tt.para, info.BirthPlace, tt.want)
		}
	}
}

func TestExtractBirthInfo_NothingFound(t *testing.T) {
	html := `<html><body><p>Bu sayfada hiç doğum bilgisi yok, sadece görev tarihi var.</p></body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "")
	if !info.Empty() {
		t.Errorf("expected empty info, got %+v", info)
	}
}

func TestExtractBirthInfo_ExcerptMarkdown(t *testing.T) {
	html := `<html><body>
<p><b>İsmet İnönü</b> (d. 1884, İzmir), <a href="/wiki/T%C3%BCrkiye">Türkiye</a> devlet adamı ve ikinci cumhurbaşkanıdır.</p>
</body></html>`

	info := ExtractBirthInfo(docFromHTML(t, html), "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC")
	if !strings.Contains(info.Excerpt, "**İsmet İnönü**") {
		t.Errorf("excerpt = %q, want bold markdown", info.Excerpt)
	}
	if !strings.Contains(info.Excerpt, "https://tr.wikipedia.org/wiki/T%C3%BCrkiye") {
		t.Errorf("excerpt = %q, want resolved link", info.Excerpt)
	}
}
