package geo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a misspelled
// part to still count as a province hit.
const fuzzyThreshold = 0.92

var (
	bracketRe     = regexp.MustCompile(`\[[^\]]*\]`)
	countryTailRe = regexp.MustCompile(`,\s*(Türkiye|Osmanlı İmparatorluğu|Osmanlı Devleti|Osmanlı|Turkey).*$`)
)

// skipWords are comma parts that name a country or empire rather than a
// place; they carry no location information of their own.
var skipWords = map[string]bool{
	"türkiye":               true,
	"turkey":                true,
	"osmanlı":               true,
	"osmanlı imparatorluğu": true,
	"osmanlı devleti":       true,
	"yunanistan":            true,
	"makedonya":             true,
	"kuzey makedonya":       true,
	"bulgaristan":           true,
	"bosna-hersek":          true,
	"mısır":                 true,
	"suriye":                true,
	"irak":                  true,
}

// Clean reduces a scraped birthplace to its most significant part: bracketed
// references and country tails stripped, comma parts walked last to first
// past country and empire words. Empty and "?" inputs clean to "".
func Clean(birthplace string) string {
	parts := splitParts(birthplace)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// Normalize resolves a birthplace to a canonical province name. Each
// significant part is tried in turn: exact name, alias, containment, then
// fuzzy match. Known-abroad places stop the search so they are never forced
// onto a province.
func Normalize(birthplace string) (string, bool) {
	for _, part := range splitParts(birthplace) {
		lower := lowerTR(part)
		if abroad[lower] {
			return "", false
		}
		if name, ok := lookup(lower); ok {
			return name, true
		}
	}
	return "", false
}

// splitParts returns the significant comma parts of a birthplace in last-to-
// first order, so "Eyüp, İstanbul" yields İstanbul before Eyüp.
func splitParts(birthplace string) []string {
	s := strings.TrimSpace(birthplace)
	if s == "" || s == "?" {
		return nil
	}
	s = bracketRe.ReplaceAllString(s, "")
	s = countryTailRe.ReplaceAllString(s, "")

	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		part := strings.TrimSpace(raw[i])
		if part == "" || part == "?" || skipWords[lowerTR(part)] {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

func lookup(lower string) (string, bool) {
	if p, ok := byLower[lower]; ok {
		return p.Name, true
	}
	if canon, ok := aliases[lower]; ok {
		return canon, true
	}
	for i, pl := range provinceLowers {
		if containsEither(lower, pl) {
			return Provinces[i].Name, true
		}
	}

	best, bestScore := "", 0.0
	for i, pl := range provinceLowers {
		if score := matchr.JaroWinkler(lower, pl, false); score > bestScore {
			best, bestScore = Provinces[i].Name, score
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, true
	}
	return "", false
}

// containsEither reports substring containment in either direction, guarded
// so that very short strings ("ev", "2") cannot produce accidental hits.
func containsEither(a, b string) bool {
	if utf8.RuneCountInString(a) < 3 || utf8.RuneCountInString(b) < 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
