package stats

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/tr-officials/atlas/pkg/models"
)

var termYearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// TermStartYear pulls the Gregorian year out of a free-form Turkish term
// date like "30 Ekim 1923". Returns 0 when no year is present.
func TermStartYear(s string) int {
	m := termYearRe.FindString(s)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}

// AgeStats summarizes appointment ages for one position. Position is empty
// for the overall row.
type AgeStats struct {
	Position string
	N        int
	Min      int
	Max      int
	Median   int
	Avg      float64
}

// AgeReport holds per-position and overall appointment-age statistics.
// Youngest and Oldest list up to three positions by average age, both in
// ascending order.
type AgeReport struct {
	PerPosition []AgeStats
	Overall     AgeStats
	Youngest    []AgeStats
	Oldest      []AgeStats
}

// Ages computes appointment age (term-start year minus birth year) for every
// row carrying both fields. Ages outside 18..100 are treated as data errors
// and dropped.
func Ages(officials []models.Official) AgeReport {
	order, byPos := groupByPosition(officials)

	var report AgeReport
	var all []int
	for _, slug := range order {
		ages := collectAges(byPos[slug])
		if len(ages) == 0 {
			continue
		}
		report.PerPosition = append(report.PerPosition, summarizeAges(slug, ages))
		all = append(all, ages...)
	}
	if len(all) == 0 {
		return report
	}
	report.Overall = summarizeAges("", all)

	ranked := make([]AgeStats, len(report.PerPosition))
	copy(ranked, report.PerPosition)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Avg != ranked[j].Avg {
			return ranked[i].Avg < ranked[j].Avg
		}
		return ranked[i].Position < ranked[j].Position
	})
	n := 3
	if len(ranked) < n {
		n = len(ranked)
	}
	report.Youngest = ranked[:n]
	report.Oldest = ranked[len(ranked)-n:]
	return report
}

func collectAges(rows []models.Official) []int {
	var ages []int
	for _, o := range rows {
		if o.BirthYear == 0 {
			continue
		}
		start := TermStartYear(o.TermStart)
		if start == 0 {
			continue
		}
		if age := start - o.BirthYear; age >= 18 && age <= 100 {
			ages = append(ages, age)
		}
	}
	return ages
}

func summarizeAges(position string, ages []int) AgeStats {
	sorted := make([]int, len(ages))
	copy(sorted, ages)
	sort.Ints(sorted)

	sum := 0
	for _, a := range sorted {
		sum += a
	}
	return AgeStats{
		Position: position,
		N:        len(sorted),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Median:   sorted[len(sorted)/2],
		Avg:      float64(sum) / float64(len(sorted)),
	}
}
