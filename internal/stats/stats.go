// Package stats computes descriptive reports over scraped officials. All
// functions are pure so callers can feed them from the store or from
// fixtures.
package stats

import "github.com/tr-officials/atlas/pkg/models"

// groupByPosition splits rows per position, preserving the order positions
// first appear in the input.
func groupByPosition(officials []models.Official) ([]string, map[string][]models.Official) {
	var order []string
	byPos := make(map[string][]models.Official)
	for _, o := range officials {
		if _, ok := byPos[o.PositionSlug]; !ok {
			order = append(order, o.PositionSlug)
		}
		byPos[o.PositionSlug] = append(byPos[o.PositionSlug], o)
	}
	return order, byPos
}
