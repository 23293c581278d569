// internal/cli/summary.go
package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// summaryCmd shows what the database currently holds
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show record counts per office",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	counts, err := appCtx.Store.CountsByPosition(cmd.Context())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Database is empty; run \"atlas scrape lists\" first.")
		return nil
	}

	totalRows, totalYears, totalPlaces := 0, 0, 0
	t := newTable()
	t.AppendHeader(table.Row{"Office", "Rows", "Birth year", "Birthplace"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Title, c.Count, c.WithBirthYear, c.WithBirthPlace})
		totalRows += c.Count
		totalYears += c.WithBirthYear
		totalPlaces += c.WithBirthPlace
	}
	t.AppendFooter(table.Row{"Total", totalRows, totalYears, totalPlaces})
	t.Render()

	fmt.Printf("\nBirth year known for %s of rows, birthplace for %s\n",
		pct(totalYears, totalRows), pct(totalPlaces, totalRows))
	return nil
}
