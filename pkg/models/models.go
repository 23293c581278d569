package models

import "time"

// Position identifies one scraped state office and the Turkish Wikipedia
// page listing its holders.
type Position struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	ListURL string `json:"list_url"`
}

// Official is a single roster row from a position's list page, enriched with
// whatever the person-page scrape found later. Attrs preserves every scraped
// table cell keyed by its cleaned column header, so no source data is lost
// to the typed fields.
type Official struct {
	ID           int64             `json:"id,omitempty"`
	PositionSlug string            `json:"position"`
	RowOrder     int               `json:"row_order"`
	Name         string            `json:"name"`
	WikiURL      string            `json:"wikipedia_link,omitempty"`
	TermStart    string            `json:"term_start,omitempty"`
	TermEnd      string            `json:"term_end,omitempty"`
	Party        string            `json:"party,omitempty"`
	Attrs        map[string]string `json:"attrs,omitempty"`
	BirthDate    string            `json:"birth_date,omitempty"`
	BirthYear    int               `json:"birth_year,omitempty"`
	BirthPlace   string            `json:"birth_place,omitempty"`
	BioExcerpt   string            `json:"bio_excerpt,omitempty"`
}

// HasBirthData reports whether the person-page scrape already produced
// something for this row.
func (o Official) HasBirthData() bool {
	return o.BirthYear != 0 || o.BirthPlace != ""
}

// BirthInfo holds the fields extracted from a person page. BirthYear is 0
// when unknown; valid values fall in 1800-2099 (Gregorian only, Hijri years
// are rejected upstream).
type BirthInfo struct {
	BirthDate  string `json:"birth_date,omitempty"`
	BirthYear  int    `json:"birth_year,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
}

// Empty reports whether the extraction found nothing usable.
func (b BirthInfo) Empty() bool {
	return b.BirthYear == 0 && b.BirthPlace == "" && b.BirthDate == ""
}

// Page captures fetch metadata and the raw HTML of a retrieved page.
type Page struct {
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code"`
	HTML         string    `json:"html,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	ResponseTime int64     `json:"response_time_ms"`
}

// FetchResult is one unit of output from the person-page worker pool.
type FetchResult struct {
	URL  string
	Info BirthInfo
	Err  error
}
