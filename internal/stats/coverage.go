package stats

import "github.com/tr-officials/atlas/pkg/models"

// Coverage verdicts for age-calculation feasibility.
const (
	VerdictSufficient   = "sufficient"
	VerdictModerate     = "moderate"
	VerdictInsufficient = "insufficient"
)

// CoverageRow reports how many of a position's rows carry the fields an age
// calculation needs.
type CoverageRow struct {
	Position      string
	Total         int
	WithBirthYear int
	WithTermStart int
	WithBoth      int
	Pct           float64
}

// CoverageReport aggregates completeness across positions.
type CoverageReport struct {
	Rows    []CoverageRow
	Total   CoverageRow
	Verdict string
}

// Coverage measures birth-year and term-start completeness per position and
// overall. The verdict thresholds: >= 70% sufficient, >= 50% moderate,
// otherwise insufficient.
func Coverage(officials []models.Official) CoverageReport {
	order, byPos := groupByPosition(officials)

	var report CoverageReport
	for _, slug := range order {
		row := CoverageRow{Position: slug}
		for _, o := range byPos[slug] {
			row.Total++
			hasBirth := o.BirthYear != 0
			hasStart := o.TermStart != ""
			if hasBirth {
				row.WithBirthYear++
			}
			if hasStart {
				row.WithTermStart++
			}
			if hasBirth && hasStart {
				row.WithBoth++
			}
		}
		if row.Total > 0 {
			row.Pct = float64(row.WithBoth) / float64(row.Total) * 100
		}
		report.Rows = append(report.Rows, row)

		report.Total.Total += row.Total
		report.Total.WithBirthYear += row.WithBirthYear
		report.Total.WithTermStart += row.WithTermStart
		report.Total.WithBoth += row.WithBoth
	}

	if report.Total.Total > 0 {
		report.Total.Pct = float64(report.Total.WithBoth) / float64(report.Total.Total) * 100
	}
	switch {
	case report.Total.Pct >= 70:
		report.Verdict = VerdictSufficient
	case report.Total.Pct >= 50:
		report.Verdict = VerdictModerate
	default:
		report.Verdict = VerdictInsufficient
	}
	return report
}
