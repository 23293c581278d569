package stats

import (
	"sort"

	"github.com/tr-officials/atlas/internal/geo"
	"github.com/tr-officials/atlas/pkg/models"
)

// CityCount is one entry of a birthplace ranking.
type CityCount struct {
	City  string
	Count int
}

// PositionBirthplaces holds one position's top birthplaces.
type PositionBirthplaces struct {
	Position string
	Top      []CityCount
}

// BirthplaceReport ranks birthplaces per position and combined.
type BirthplaceReport struct {
	PerPosition  []PositionBirthplaces
	Combined     []CityCount
	Total        int // rows with a non-empty birthplace
	Unknown      int // rows whose place could not be reduced to a name
	UniqueCities int
	Istanbul     int
	Ankara       int
}

// Birthplaces ranks cleaned city names. Birthplaces that normalize to a
// province are counted under the canonical name; everything else (abroad
// places like Selanik) is counted under its cleaned form.
func Birthplaces(officials []models.Official, topN int) BirthplaceReport {
	order, byPos := groupByPosition(officials)

	var report BirthplaceReport
	combined := map[string]int{}

	for _, slug := range order {
		counts := map[string]int{}
		for _, o := range byPos[slug] {
			if o.BirthPlace == "" {
				continue
			}
			report.Total++
			city := cityName(o.BirthPlace)
			if city == "" {
				report.Unknown++
				continue
			}
			counts[city]++
			combined[city]++
		}
		if len(counts) == 0 {
			continue
		}
		report.PerPosition = append(report.PerPosition, PositionBirthplaces{
			Position: slug,
			Top:      topCities(counts, topN),
		})
	}

	report.Combined = topCities(combined, 0)
	report.UniqueCities = len(combined)
	for _, c := range report.Combined {
		switch c.City {
		case "İstanbul":
			report.Istanbul = c.Count
		case "Ankara":
			report.Ankara = c.Count
		}
	}
	return report
}

func cityName(birthplace string) string {
	if name, ok := geo.Normalize(birthplace); ok {
		return name
	}
	return geo.Clean(birthplace)
}

// topCities ranks by count descending, name ascending on ties. n <= 0
// returns the full ranking.
func topCities(counts map[string]int, n int) []CityCount {
	ranked := make([]CityCount, 0, len(counts))
	for city, count := range counts {
		ranked = append(ranked, CityCount{City: city, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].City < ranked[j].City
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
