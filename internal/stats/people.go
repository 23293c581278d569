package stats

import (
	"sort"

	"github.com/tr-officials/atlas/pkg/models"
)

// Holder is one person and the positions their URL appears under.
type Holder struct {
	Name      string
	URL       string
	Positions []string
}

// PeopleReport separates appointment records from distinct individuals.
type PeopleReport struct {
	Records         int
	DistinctLinks   int         // distinct URLs of any kind
	DistinctPersons int         // distinct person-page URLs
	PositionsHeld   map[int]int // positions held -> number of people
	MultiHolders    []Holder    // people holding two or more positions
}

// People counts distinct individuals across positions; the same person
// holding several offices is identified by their shared person-page URL.
func People(officials []models.Official, isPerson func(url string) bool) PeopleReport {
	report := PeopleReport{
		Records:       len(officials),
		PositionsHeld: map[int]int{},
	}

	type person struct {
		name      string
		seen      map[string]bool
		positions []string
	}
	links := map[string]bool{}
	persons := map[string]*person{}
	var urlOrder []string

	for _, o := range officials {
		if o.WikiURL == "" {
			continue
		}
		links[o.WikiURL] = true
		if !isPerson(o.WikiURL) {
			continue
		}
		p := persons[o.WikiURL]
		if p == nil {
			p = &person{name: o.Name, seen: map[string]bool{}}
			persons[o.WikiURL] = p
			urlOrder = append(urlOrder, o.WikiURL)
		}
		if !p.seen[o.PositionSlug] {
			p.seen[o.PositionSlug] = true
			p.positions = append(p.positions, o.PositionSlug)
		}
	}

	report.DistinctLinks = len(links)
	report.DistinctPersons = len(persons)

	for _, url := range urlOrder {
		p := persons[url]
		report.PositionsHeld[len(p.positions)]++
		if len(p.positions) >= 2 {
			report.MultiHolders = append(report.MultiHolders, Holder{
				Name:      p.name,
				URL:       url,
				Positions: p.positions,
			})
		}
	}

	sort.Slice(report.MultiHolders, func(i, j int) bool {
		a, b := report.MultiHolders[i], report.MultiHolders[j]
		if len(a.Positions) != len(b.Positions) {
			return len(a.Positions) > len(b.Positions)
		}
		return a.Name < b.Name
	})
	return report
}
