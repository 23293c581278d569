// internal/cli/query.go
package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/scrape"
	"github.com/tr-officials/atlas/internal/store"
	"github.com/tr-officials/atlas/pkg/models"
)

var queryLimit int

// queryCmd groups read-only lookups against the database
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Look up stored records",
}

var queryPositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List tracked offices and their scrape state",
	Args:  cobra.NoArgs,
	RunE:  runQueryPositions,
}

var queryShowCmd = &cobra.Command{
	Use:   "show <position>",
	Short: "Print the stored roster of one office",
	Example: `  # Full prime minister roster
  atlas query show prime_minister

  # First ten rows only
  atlas query show minister_of_interior --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryShow,
}

var querySearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find officials by name, birthplace, or scraped cell",
	Long: `Matches case-insensitively with Turkish letter folding, so "inönü" finds
İnönü. Every scraped table cell is searched, not just the typed fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuerySearch,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryPositionsCmd)
	queryCmd.AddCommand(queryShowCmd)
	queryCmd.AddCommand(querySearchCmd)

	queryShowCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum rows to print (0 = all)")
}

func runQueryPositions(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	stored, err := appCtx.Store.Positions(cmd.Context())
	if err != nil {
		return err
	}
	scrapedAt := make(map[string]time.Time, len(stored))
	for _, p := range stored {
		scrapedAt[p.Slug] = p.ScrapedAt
	}

	t := newTable()
	t.AppendHeader(table.Row{"Slug", "Office", "Scraped"})
	for _, pos := range scrape.Positions {
		mark := ""
		if at, ok := scrapedAt[pos.Slug]; ok {
			mark = "yes"
			if !at.IsZero() {
				mark = at.Local().Format("2006-01-02 15:04")
			}
		}
		t.AppendRow(table.Row{pos.Slug, pos.Title, mark})
	}
	t.Render()
	return nil
}

func runQueryShow(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	slug := args[0]
	if _, ok := scrape.PositionBySlug(slug); !ok {
		return fmt.Errorf("unknown position %q; run \"atlas query positions\" for the list", slug)
	}

	officials, err := appCtx.Store.Officials(cmd.Context(), store.Filter{Position: slug, Limit: queryLimit})
	if err != nil {
		return err
	}
	if len(officials) == 0 {
		fmt.Printf("No rows stored for %s yet.\n", slug)
		return nil
	}

	renderOfficials(officials, false)
	return nil
}

func runQuerySearch(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	matches, err := appCtx.Store.Search(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	renderOfficials(matches, true)
	fmt.Printf("\n%d matching rows\n", len(matches))
	return nil
}

// renderOfficials prints roster rows; withOffice adds the office column for
// cross-position result sets.
func renderOfficials(officials []models.Official, withOffice bool) {
	t := newTable()
	if withOffice {
		t.AppendHeader(table.Row{"Office", "Name", "Term", "Born"})
	} else {
		t.AppendHeader(table.Row{"#", "Name", "Term", "Party", "Born"})
	}
	for _, o := range officials {
		term := o.TermStart
		if o.TermEnd != "" {
			term += " / " + o.TermEnd
		}
		born := o.BirthPlace
		if o.BirthYear != 0 {
			if born != "" {
				born = fmt.Sprintf("%s, %d", born, o.BirthYear)
			} else {
				born = fmt.Sprintf("%d", o.BirthYear)
			}
		}
		if withOffice {
			t.AppendRow(table.Row{positionTitle(o.PositionSlug), o.Name, term, born})
		} else {
			t.AppendRow(table.Row{o.RowOrder, o.Name, term, o.Party, born})
		}
	}
	t.Render()
}
