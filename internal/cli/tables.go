// internal/cli/tables.go
package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tr-officials/atlas/internal/scrape"
)

// newTable returns a rounded-style table writer mirrored to stdout.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// positionTitle resolves a slug to its display title, falling back to the
// slug itself for rows scraped under a registry no longer tracking them.
func positionTitle(slug string) string {
	if pos, ok := scrape.PositionBySlug(slug); ok {
		return pos.Title
	}
	return slug
}

// pct formats a percentage with one decimal.
func pct(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}
