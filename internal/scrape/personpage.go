package scrape

import (
	"regexp"
	"strings"
)

// personURLExclusions mark URLs that are never individual biographies.
var personURLExclusions = []string{
	"Dosya:", "File:", "listesi", "_list", "genel_seçim", "seçimleri",
	"milletvekil", "dönem", "Kategori:", "Category:", "Vikipedi:", "Wikipedia:",
}

// personLinkExclusions is the stricter set used when judging individual
// anchors, where cabinet and presidency links also slip in.
var personLinkExclusions = []string{
	"Dosya:", "File:", "listesi", "_list", "genel_seçim", "seçimleri",
	"Hükûmeti", "Hükümet", "milletvekil", "dönem", "Kategori:",
	"Category:", "Vikipedi:", "Wikipedia:", "cumhurbaşkan",
}

// Cabinet articles are titled "62. Türkiye Hükûmeti".
var numberedTitleRe = regexp.MustCompile(`^\d+\.`)

// IsPersonPage reports whether a stored URL plausibly points at an
// individual's article rather than an election, list, or project page.
func IsPersonPage(urlStr string) bool {
	if urlStr == "" || !strings.Contains(urlStr, "wikipedia.org") {
		return false
	}
	for _, pattern := range personURLExclusions {
		if strings.Contains(urlStr, pattern) {
			return false
		}
	}
	return true
}

// IsPersonLink judges a single anchor by comparing its title attribute with
// its text. Person links title themselves with the person's name; cabinet
// links show a person's name but are titled "N. Türkiye Hükûmeti".
func IsPersonLink(href, title, text string) bool {
	if !strings.HasPrefix(href, "/wiki/") {
		return false
	}
	for _, pattern := range personLinkExclusions {
		if strings.Contains(href, pattern) || strings.Contains(title, pattern) {
			return false
		}
	}
	if title == "" || text == "" {
		return false
	}
	if numberedTitleRe.MatchString(title) || strings.Contains(title, "Türkiye") || strings.Contains(title, "ükümet") {
		return false
	}

	titleClean := lowerTR(strings.TrimSpace(strings.SplitN(title, "(", 2)[0]))
	textClean := lowerTR(strings.TrimSpace(strings.SplitN(text, "(", 2)[0]))
	return titleClean == textClean || strings.Contains(titleClean, textClean)
}

// GuessPageURL builds the canonical article URL for a name. Wikipedia
// redirects or 404s tell us whether the guess was right.
func GuessPageURL(name string) string {
	return wikiBase + "/wiki/" + strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
