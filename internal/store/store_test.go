package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tr-officials/atlas/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	pmPos      = models.Position{Slug: "prime_minister", Title: "Prime Minister", ListURL: "https://tr.wikipedia.org/wiki/PM"}
	speakerPos = models.Position{Slug: "speaker", Title: "Speaker", ListURL: "https://tr.wikipedia.org/wiki/Speaker"}
)

func seedRosters(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	pm := []models.Official{
		{
			RowOrder:  1,
			Name:      "İsmet İnönü",
			WikiURL:   "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC",
			TermStart: "30 Ekim 1923",
			TermEnd:   "22 Kasım 1924",
			Party:     "CHP",
			Attrs:     map[string]string{"Hükûmet": "I. İnönü Hükûmeti"},
		},
		{
			RowOrder: 2,
			Name:     "Fethi Okyar",
			WikiURL:  "https://tr.wikipedia.org/wiki/Fethi_Okyar",
			Party:    "CHP",
		},
		{
			RowOrder: 3,
			Name:     "Nihat Erim",
		},
	}
	if err := s.ReplaceRoster(ctx, pmPos, pm); err != nil {
		t.Fatalf("ReplaceRoster(pm) error = %v", err)
	}

	speaker := []models.Official{
		{
			RowOrder: 1,
			Name:     "İsmet İnönü",
			WikiURL:  "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC",
		},
	}
	if err := s.ReplaceRoster(ctx, speakerPos, speaker); err != nil {
		t.Fatalf("ReplaceRoster(speaker) error = %v", err)
	}
}

func TestReplaceRoster_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)

	got, err := s.Officials(context.Background(), Filter{Position: "prime_minister"})
	if err != nil {
		t.Fatalf("Officials() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Officials() returned %d rows, want 3", len(got))
	}

	first := got[0]
	if first.Name != "İsmet İnönü" {
		t.Errorf("Name = %q, want İsmet İnönü", first.Name)
	}
	if first.PositionSlug != "prime_minister" {
		t.Errorf("PositionSlug = %q, want prime_minister", first.PositionSlug)
	}
	if first.RowOrder != 1 || got[1].RowOrder != 2 {
		t.Errorf("rows out of roster order: %d, %d", first.RowOrder, got[1].RowOrder)
	}
	if first.TermStart != "30 Ekim 1923" || first.TermEnd != "22 Kasım 1924" {
		t.Errorf("term = %q..%q", first.TermStart, first.TermEnd)
	}
	want := map[string]string{"Hükûmet": "I. İnönü Hükûmeti"}
	if !reflect.DeepEqual(first.Attrs, want) {
		t.Errorf("Attrs = %v, want %v", first.Attrs, want)
	}
	if got[2].Attrs != nil {
		t.Errorf("empty attrs decoded as %v, want nil", got[2].Attrs)
	}
}

func TestReplaceRoster_ReplacesExistingRows(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	rescrape := []models.Official{{RowOrder: 1, Name: "Şükrü Saracoğlu"}}
	if err := s.ReplaceRoster(ctx, pmPos, rescrape); err != nil {
		t.Fatalf("ReplaceRoster() error = %v", err)
	}

	pm, err := s.Officials(ctx, Filter{Position: "prime_minister"})
	if err != nil {
		t.Fatalf("Officials() error = %v", err)
	}
	if len(pm) != 1 || pm[0].Name != "Şükrü Saracoğlu" {
		t.Fatalf("after rescrape got %d rows (first %q), want the single new row", len(pm), pm[0].Name)
	}

	// The other position's roster must survive untouched.
	speaker, err := s.Officials(ctx, Filter{Position: "speaker"})
	if err != nil {
		t.Fatalf("Officials() error = %v", err)
	}
	if len(speaker) != 1 {
		t.Errorf("speaker roster has %d rows after pm rescrape, want 1", len(speaker))
	}
}

func TestOfficials_Limit(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)

	got, err := s.Officials(context.Background(), Filter{Limit: 2})
	if err != nil {
		t.Fatalf("Officials() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Officials(Limit: 2) returned %d rows", len(got))
	}
}

func TestPersonURLs(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	all, err := s.PersonURLs(ctx, false)
	if err != nil {
		t.Fatalf("PersonURLs(false) error = %v", err)
	}
	// İnönü appears under two positions but must be listed once; Erim has
	// no link at all.
	if len(all) != 2 {
		t.Fatalf("PersonURLs(false) = %v, want 2 distinct URLs", all)
	}

	missing, err := s.PersonURLs(ctx, true)
	if err != nil {
		t.Fatalf("PersonURLs(true) error = %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("PersonURLs(true) = %v, want both URLs while no birth data stored", missing)
	}

	info := models.BirthInfo{BirthYear: 1884, BirthPlace: "İzmir"}
	if _, err := s.UpdateBirthInfo(ctx, "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC", info); err != nil {
		t.Fatalf("UpdateBirthInfo() error = %v", err)
	}

	missing, err = s.PersonURLs(ctx, true)
	if err != nil {
		t.Fatalf("PersonURLs(true) error = %v", err)
	}
	if len(missing) != 1 || missing[0] != "https://tr.wikipedia.org/wiki/Fethi_Okyar" {
		t.Errorf("PersonURLs(true) = %v, want only the Okyar URL", missing)
	}
}

func TestUpdateBirthInfo_TouchesEveryRowSharingURL(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	info := models.BirthInfo{BirthDate: "24 Eylül 1884", BirthYear: 1884, BirthPlace: "İzmir", Excerpt: "**İsmet İnönü**"}
	n, err := s.UpdateBirthInfo(ctx, "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC", info)
	if err != nil {
		t.Fatalf("UpdateBirthInfo() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("UpdateBirthInfo() affected %d rows, want 2 (pm and speaker)", n)
	}

	for _, slug := range []string{"prime_minister", "speaker"} {
		rows, err := s.Officials(ctx, Filter{Position: slug})
		if err != nil {
			t.Fatalf("Officials(%s) error = %v", slug, err)
		}
		o := rows[0]
		if o.BirthYear != 1884 || o.BirthPlace != "İzmir" || o.BirthDate != "24 Eylül 1884" || o.BioExcerpt == "" {
			t.Errorf("%s row not updated: year=%d place=%q date=%q", slug, o.BirthYear, o.BirthPlace, o.BirthDate)
		}
	}
}

func TestSetWikiURLByName(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	guessed := "https://tr.wikipedia.org/wiki/Nihat_Erim"
	n, err := s.SetWikiURLByName(ctx, "Nihat Erim", guessed)
	if err != nil {
		t.Fatalf("SetWikiURLByName() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("SetWikiURLByName() affected %d rows, want 1", n)
	}

	// Rows that already carry a link keep it.
	n, err = s.SetWikiURLByName(ctx, "Fethi Okyar", "https://tr.wikipedia.org/wiki/Wrong")
	if err != nil {
		t.Fatalf("SetWikiURLByName() error = %v", err)
	}
	if n != 0 {
		t.Errorf("SetWikiURLByName() overwrote an existing link (%d rows)", n)
	}

	urls, err := s.PersonURLs(ctx, false)
	if err != nil {
		t.Fatalf("PersonURLs() error = %v", err)
	}
	if len(urls) != 3 {
		t.Errorf("PersonURLs() = %v, want the guessed URL included", urls)
	}
}

func TestOverrideBirthplace(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	if _, err := s.UpdateBirthInfo(ctx, "https://tr.wikipedia.org/wiki/Fethi_Okyar",
		models.BirthInfo{BirthYear: 1880, BirthPlace: "Pirlepe"}); err != nil {
		t.Fatalf("UpdateBirthInfo() error = %v", err)
	}

	// Place-only override keeps the stored year.
	n, err := s.OverrideBirthplace(ctx, "Fethi Okyar", "Manastır", 0)
	if err != nil {
		t.Fatalf("OverrideBirthplace() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("OverrideBirthplace() affected %d rows, want 1", n)
	}

	rows, err := s.Officials(ctx, Filter{Position: "prime_minister"})
	if err != nil {
		t.Fatalf("Officials() error = %v", err)
	}
	okyar := rows[1]
	if okyar.BirthPlace != "Manastır" || okyar.BirthYear != 1880 {
		t.Errorf("after place-only override: place=%q year=%d, want Manastır/1880", okyar.BirthPlace, okyar.BirthYear)
	}

	if _, err := s.OverrideBirthplace(ctx, "Fethi Okyar", "Pirlepe", 1881); err != nil {
		t.Fatalf("OverrideBirthplace() error = %v", err)
	}
	rows, _ = s.Officials(ctx, Filter{Position: "prime_minister"})
	okyar = rows[1]
	if okyar.BirthPlace != "Pirlepe" || okyar.BirthYear != 1881 {
		t.Errorf("after full override: place=%q year=%d, want Pirlepe/1881", okyar.BirthPlace, okyar.BirthYear)
	}
}

func TestCountsByPosition(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	if _, err := s.UpdateBirthInfo(ctx, "https://tr.wikipedia.org/wiki/%C4%B0smet_%C4%B0n%C3%B6n%C3%BC",
		models.BirthInfo{BirthYear: 1884, BirthPlace: "İzmir"}); err != nil {
		t.Fatalf("UpdateBirthInfo() error = %v", err)
	}

	counts, err := s.CountsByPosition(ctx)
	if err != nil {
		t.Fatalf("CountsByPosition() error = %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("CountsByPosition() returned %d positions, want 2", len(counts))
	}

	bySlug := map[string]PositionCount{}
	for _, c := range counts {
		bySlug[c.Slug] = c
	}
	pm := bySlug["prime_minister"]
	if pm.Count != 3 || pm.WithBirthYear != 1 || pm.WithBirthPlace != 1 {
		t.Errorf("prime_minister counts = %+v", pm)
	}
	if pm.Title != "Prime Minister" {
		t.Errorf("Title = %q", pm.Title)
	}
	sp := bySlug["speaker"]
	if sp.Count != 1 || sp.WithBirthYear != 1 {
		t.Errorf("speaker counts = %+v", sp)
	}
}

func TestPositions(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)

	positions, err := s.Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("Positions() returned %d, want 2", len(positions))
	}
	if positions[0].Slug != "prime_minister" || positions[0].ListURL != pmPos.ListURL {
		t.Errorf("Positions()[0] = %+v", positions[0])
	}
	if positions[0].ScrapedAt.IsZero() {
		t.Error("ScrapedAt not recorded on scrape")
	}
}

func TestSearch_TurkishCaseFolding(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"İNÖNÜ", 2},       // name, dotted capital İ folds to i
		{"inönü", 2},       // already lowercase
		{"hükûmeti", 1},    // attrs value
		{"saracoğlu", 0},   // not stored
		{"FETHİ", 1},       // dotted İ in the query side
		{"", 0},            // blank query matches nothing
	}
	for _, tt := range tests {
		got, err := s.Search(ctx, tt.query)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) returned %d rows, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestSearch_MatchesBirthPlace(t *testing.T) {
	s := openTestStore(t)
	seedRosters(t, s)
	ctx := context.Background()

	if _, err := s.UpdateBirthInfo(ctx, "https://tr.wikipedia.org/wiki/Fethi_Okyar",
		models.BirthInfo{BirthPlace: "Pirlepe"}); err != nil {
		t.Fatalf("UpdateBirthInfo() error = %v", err)
	}

	got, err := s.Search(ctx, "PİRLEPE")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fethi Okyar" {
		t.Errorf("Search(PİRLEPE) = %d rows", len(got))
	}
}
