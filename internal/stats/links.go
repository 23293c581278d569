package stats

import "github.com/tr-officials/atlas/pkg/models"

// LinkRow reports link quality for one position.
type LinkRow struct {
	Position       string
	Records        int
	WithLink       int
	PersonPages    int
	Distinct       int
	MissingExample string
}

// LinkReport aggregates link quality across positions. DistinctPersons
// counts person-page URLs once even when shared between positions.
type LinkReport struct {
	Rows            []LinkRow
	Records         int
	WithLink        int
	PersonPages     int
	WithoutLink     int
	DistinctPersons int
}

// Links measures how many rows carry a usable person-page link. isPerson
// decides whether a URL points at an individual's article rather than a
// list, file, or category page.
func Links(officials []models.Official, isPerson func(url string) bool) LinkReport {
	order, byPos := groupByPosition(officials)

	var report LinkReport
	allPersons := map[string]bool{}

	for _, slug := range order {
		row := LinkRow{Position: slug}
		distinct := map[string]bool{}
		for _, o := range byPos[slug] {
			row.Records++
			if o.WikiURL == "" {
				if row.MissingExample == "" {
					row.MissingExample = o.Name
				}
				continue
			}
			row.WithLink++
			if isPerson(o.WikiURL) {
				row.PersonPages++
				distinct[o.WikiURL] = true
				allPersons[o.WikiURL] = true
			}
		}
		row.Distinct = len(distinct)
		report.Rows = append(report.Rows, row)

		report.Records += row.Records
		report.WithLink += row.WithLink
		report.PersonPages += row.PersonPages
	}

	report.WithoutLink = report.Records - report.WithLink
	report.DistinctPersons = len(allPersons)
	return report
}
