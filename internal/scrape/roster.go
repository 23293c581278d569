package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tr-officials/atlas/pkg/models"
)

const wikiBase = "https://tr.wikipedia.org"

// Rows whose cells mention an acting or interim appointment are dropped;
// they duplicate the permanent holder's record.
var actingKeywords = []string{"vekaleten", "vekâleten", "vekil", "geçici"}

// hrefExclusions filter hrefs that can never be person pages: media, list
// and category namespaces, election and legislative-term articles, cabinets.
var hrefExclusions = []string{
	"Dosya:", "File:", "listesi", "Kategori:", "Category:",
	"dönem", "genel_seçim", "seçimleri", "Hükûmeti", "milletvekil",
}

// Presidential articles appear percent-encoded inside hrefs.
const encodedPresidentFragment = "cumhurba%C5%9Fkan"

// Columns about a different office than the table's own. The prime minister
// table has a Cumhurbaşkanı column whose links must never win.
var referenceColumnKeywords = []string{
	"cumhurbaşkan", "president", "hükümdar", "monarch", "padişah", "sultan",
}

var (
	nameColumnKeywords = []string{"başkan", "başbakan", "bakan", "komutan", "isim"}

	termStartKeywords = []string{"başla", "başlangıç"}
	termEndKeywords   = []string{"ayrılma", "bitiş", "sonu"}

	whitespaceRe = regexp.MustCompile(`\s+`)
	refMarkerRe  = regexp.MustCompile(`\[\d+\]`)
)

// lowerTR lowercases with Turkish casing rules (İ→i, I→ı). A fresh caser per
// call because cases.Caser is not safe for concurrent use.
func lowerTR(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// cleanText collapses whitespace and strips citation markers like [3].
func cleanText(s string) string {
	s = refMarkerRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractRoster walks every wikitable on a position's list page and returns
// the officials it finds, in page order. Row numbering restarts per page,
// counting only kept rows.
func ExtractRoster(doc *goquery.Document, pos models.Position) []models.Official {
	var officials []models.Official
	order := 0

	doc.Find("table.wikitable").Each(func(_ int, table *goquery.Selection) {
		headers := extractHeaders(table)
		if len(headers) == 0 {
			return
		}

		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if rowIdx == 0 {
				return
			}
			official, ok := extractRow(row, headers, pos)
			if !ok {
				return
			}
			order++
			official.RowOrder = order
			officials = append(officials, official)
		})
	})

	log.Debug().
		Str("position", pos.Slug).
		Int("rows", len(officials)).
		Msg("Roster extracted")

	return officials
}

// extractHeaders reads the first row of a table and de-duplicates the header
// texts case-insensitively: Parti, Parti_2, Parti_3, …
func extractHeaders(table *goquery.Selection) []string {
	var headers []string
	seen := make(map[string]int)

	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := cleanText(cell.Text())
		if text == "" {
			return
		}
		key := lowerTR(text)
		seen[key]++
		if seen[key] > 1 {
			text = fmt.Sprintf("%s_%d", text, seen[key])
		}
		headers = append(headers, text)
	})

	return headers
}

func extractRow(row *goquery.Selection, headers []string, pos models.Position) (models.Official, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 2 {
		return models.Official{}, false
	}

	attrs := make(map[string]string)
	wikiURL := ""
	linkColumn := ""

	cells.Each(func(idx int, cell *goquery.Selection) {
		colName := fmt.Sprintf("column_%d", idx)
		if idx < len(headers) {
			colName = headers[idx]
		}
		attrs[colName] = cleanText(cell.Text())

		if wikiURL == "" && !isReferenceColumn(colName) {
			if href := personLinkFromCell(cell); href != "" {
				wikiURL = href
				linkColumn = colName
			}
		}
	})

	if len(attrs) < 2 || hasActingKeyword(attrs) {
		return models.Official{}, false
	}

	official := models.Official{
		PositionSlug: pos.Slug,
		Name:         pickName(headers, attrs, linkColumn),
		WikiURL:      wikiURL,
		TermStart:    pickColumn(headers, attrs, termStartKeywords),
		TermEnd:      pickColumn(headers, attrs, termEndKeywords),
		Party:        pickColumn(headers, attrs, []string{"parti"}),
		Attrs:        attrs,
	}
	if official.Name == "" {
		return models.Official{}, false
	}
	return official, true
}

// personLinkFromCell returns the first qualifying person link in a cell.
// Bold links are names nearly always, so they win over plain ones; plain
// links additionally need a lowercase letter or encoded Turkish character in
// the page name to filter out acronym articles.
func personLinkFromCell(cell *goquery.Selection) string {
	found := ""

	cell.Find("b a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if ok && acceptableHref(href) {
			found = wikiBase + href
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	cell.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || !acceptableHref(href) {
			return true
		}
		pageName := href[strings.LastIndex(href, "/")+1:]
		if !hasLowercase(pageName) && !strings.Contains(pageName, "C3%") {
			return true
		}
		found = wikiBase + href
		return false
	})

	return found
}

func acceptableHref(href string) bool {
	if !strings.HasPrefix(href, "/wiki/") {
		return false
	}
	if strings.Contains(href, encodedPresidentFragment) {
		return false
	}
	for _, x := range hrefExclusions {
		if strings.Contains(href, x) {
			return false
		}
	}
	return true
}

func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func hasActingKeyword(attrs map[string]string) bool {
	for _, v := range attrs {
		lower := lowerTR(v)
		for _, kw := range actingKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func isReferenceColumn(colName string) bool {
	lower := lowerTR(colName)
	for _, kw := range referenceColumnKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isNameColumn matches holder-name headers. "Ad"/"Adı" only as the whole
// (de-suffixed) header so columns like "Adalet" do not qualify; reference
// columns never do even though Cumhurbaşkanı contains başkan.
func isNameColumn(colName string) bool {
	if isReferenceColumn(colName) {
		return false
	}
	lower := lowerTR(colName)
	for _, kw := range nameColumnKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	base := strings.SplitN(lower, "_", 2)[0]
	return base == "ad" || base == "adı"
}

// pickName prefers the column the person link came from when it is a
// name-like column, then the first name-like column with content, then the
// linked cell's text as a last resort.
func pickName(headers []string, attrs map[string]string, linkColumn string) string {
	if linkColumn != "" && isNameColumn(linkColumn) && attrs[linkColumn] != "" {
		return attrs[linkColumn]
	}
	for _, h := range headers {
		if isNameColumn(h) && attrs[h] != "" {
			return attrs[h]
		}
	}
	if linkColumn != "" {
		return attrs[linkColumn]
	}
	return ""
}

func pickColumn(headers []string, attrs map[string]string, keywords []string) string {
	for _, h := range headers {
		lower := lowerTR(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) && attrs[h] != "" {
				return attrs[h]
			}
		}
	}
	return ""
}
