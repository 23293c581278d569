// internal/cli/stats.go
package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/scrape"
	"github.com/tr-officials/atlas/internal/stats"
	"github.com/tr-officials/atlas/internal/store"
	"github.com/tr-officials/atlas/internal/ui"
	"github.com/tr-officials/atlas/pkg/models"
)

var (
	statsTop         int
	statsPerPosition bool
)

// statsCmd groups the analysis reports
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Analyze the scraped dataset",
}

var statsBirthplacesCmd = &cobra.Command{
	Use:   "birthplaces",
	Short: "Most common birthplaces",
	Long: `Cleans every stored birthplace and ranks where officials were born.
Places matching a Turkish province are counted under the canonical province
name; birthplaces outside modern Turkey (Selanik, Üsküp) keep their cleaned
spelling. Strings too mangled to clean count as unmapped.`,
	Example: `  # Top ten birthplaces across all offices
  atlas stats birthplaces

  # Top five, broken down per office
  atlas stats birthplaces --top 5 --per-position`,
	Args: cobra.NoArgs,
	RunE: runStatsBirthplaces,
}

var statsAgesCmd = &cobra.Command{
	Use:   "ages",
	Short: "Age at appointment per office",
	Long: `Computes each official's age when their term started, from the stored
birth year and the first plausible year found in the term-start cell.
Ages outside 18-100 are treated as data errors and dropped.`,
	Args: cobra.NoArgs,
	RunE: runStatsAges,
}

var statsCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "How complete the birth data is",
	Args:  cobra.NoArgs,
	RunE:  runStatsCoverage,
}

var statsLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Person-page link quality per office",
	Args:  cobra.NoArgs,
	RunE:  runStatsLinks,
}

var statsPeopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Distinct individuals behind the records",
	Long: `Counts how many distinct people the appointment records describe. The
same person holding several offices is recognized by their shared
person-page URL.`,
	Args: cobra.NoArgs,
	RunE: runStatsPeople,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsBirthplacesCmd)
	statsCmd.AddCommand(statsAgesCmd)
	statsCmd.AddCommand(statsCoverageCmd)
	statsCmd.AddCommand(statsLinksCmd)
	statsCmd.AddCommand(statsPeopleCmd)

	statsBirthplacesCmd.Flags().IntVar(&statsTop, "top", 10, "How many birthplaces to list")
	statsBirthplacesCmd.Flags().BoolVar(&statsPerPosition, "per-position", false, "Break the ranking down per office")
}

// loadOfficials pulls every stored row for the report commands.
func loadOfficials(cmd *cobra.Command) ([]models.Official, error) {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	officials, err := appCtx.Store.Officials(cmd.Context(), store.Filter{})
	if err != nil {
		return nil, err
	}
	if len(officials) == 0 {
		return nil, fmt.Errorf("database is empty; run \"atlas scrape lists\" first")
	}
	return officials, nil
}

func runStatsBirthplaces(cmd *cobra.Command, args []string) error {
	officials, err := loadOfficials(cmd)
	if err != nil {
		return err
	}
	report := stats.Birthplaces(officials, statsTop)

	if statsPerPosition {
		for _, pp := range report.PerPosition {
			if len(pp.Top) == 0 {
				continue
			}
			fmt.Printf("\n%s%s%s\n", ui.ColorBold, positionTitle(pp.Position), ui.ColorReset)
			t := newTable()
			t.AppendHeader(table.Row{"Birthplace", "Officials"})
			for _, c := range pp.Top {
				t.AppendRow(table.Row{c.City, c.Count})
			}
			t.Render()
		}
		fmt.Println()
	}

	combined := report.Combined
	if statsTop > 0 && len(combined) > statsTop {
		combined = combined[:statsTop]
	}
	t := newTable()
	t.AppendHeader(table.Row{"#", "Birthplace", "Officials"})
	for i, c := range combined {
		t.AppendRow(table.Row{i + 1, c.City, c.Count})
	}
	t.Render()

	fmt.Printf("\nOfficials with a known birthplace: %d (%d unmapped)\n", report.Total, report.Unknown)
	fmt.Printf("Distinct birthplaces: %d\n", report.UniqueCities)
	fmt.Printf("Born in İstanbul: %d, in Ankara: %d\n", report.Istanbul, report.Ankara)
	return nil
}

func runStatsAges(cmd *cobra.Command, args []string) error {
	officials, err := loadOfficials(cmd)
	if err != nil {
		return err
	}
	report := stats.Ages(officials)

	t := newTable()
	t.AppendHeader(table.Row{"Office", "N", "Min", "Max", "Median", "Avg"})
	for _, row := range report.PerPosition {
		t.AppendRow(table.Row{positionTitle(row.Position), row.N, row.Min, row.Max, row.Median, fmt.Sprintf("%.1f", row.Avg)})
	}
	t.AppendFooter(table.Row{"All offices", report.Overall.N, report.Overall.Min, report.Overall.Max, report.Overall.Median, fmt.Sprintf("%.1f", report.Overall.Avg)})
	t.Render()

	if len(report.Youngest) > 0 {
		fmt.Printf("\nYoungest offices at appointment:\n")
		for _, row := range report.Youngest {
			fmt.Printf("  %s (avg %.1f)\n", positionTitle(row.Position), row.Avg)
		}
	}
	if len(report.Oldest) > 0 {
		fmt.Printf("\nOldest offices at appointment:\n")
		for _, row := range report.Oldest {
			fmt.Printf("  %s (avg %.1f)\n", positionTitle(row.Position), row.Avg)
		}
	}
	return nil
}

func runStatsCoverage(cmd *cobra.Command, args []string) error {
	officials, err := loadOfficials(cmd)
	if err != nil {
		return err
	}
	report := stats.Coverage(officials)

	t := newTable()
	t.AppendHeader(table.Row{"Office", "Rows", "Birth year", "Term start", "Both", "Usable"})
	for _, row := range report.Rows {
		t.AppendRow(table.Row{positionTitle(row.Position), row.Total, row.WithBirthYear, row.WithTermStart, row.WithBoth, fmt.Sprintf("%.1f%%", row.Pct)})
	}
	t.AppendFooter(table.Row{"Total", report.Total.Total, report.Total.WithBirthYear, report.Total.WithTermStart, report.Total.WithBoth, fmt.Sprintf("%.1f%%", report.Total.Pct)})
	t.Render()

	verdictColor := ui.ColorGreen
	switch report.Verdict {
	case stats.VerdictModerate:
		verdictColor = ui.ColorYellow
	case stats.VerdictInsufficient:
		verdictColor = ui.ColorRed
	}
	fmt.Printf("\nCoverage for age analysis: %s%s%s\n", verdictColor, report.Verdict, ui.ColorReset)
	return nil
}

func runStatsLinks(cmd *cobra.Command, args []string) error {
	officials, err := loadOfficials(cmd)
	if err != nil {
		return err
	}
	report := stats.Links(officials, scrape.IsPersonPage)

	t := newTable()
	t.AppendHeader(table.Row{"Office", "Rows", "Linked", "Person pages", "Distinct", "Missing (example)"})
	for _, row := range report.Rows {
		t.AppendRow(table.Row{positionTitle(row.Position), row.Records, row.WithLink, row.PersonPages, row.Distinct, row.MissingExample})
	}
	t.Render()

	fmt.Printf("\nRows: %d, linked: %d (%s), person pages: %d, unlinked: %d\n",
		report.Records, report.WithLink, pct(report.WithLink, report.Records), report.PersonPages, report.WithoutLink)
	fmt.Printf("Distinct individuals with a person page: %d\n", report.DistinctPersons)
	return nil
}

func runStatsPeople(cmd *cobra.Command, args []string) error {
	officials, err := loadOfficials(cmd)
	if err != nil {
		return err
	}
	report := stats.People(officials, scrape.IsPersonPage)

	fmt.Printf("Appointment records: %d\n", report.Records)
	fmt.Printf("Distinct linked pages: %d (of which %d person pages)\n", report.DistinctLinks, report.DistinctPersons)

	t := newTable()
	t.AppendHeader(table.Row{"Offices held", "People"})
	for held := 1; held <= len(scrape.Positions); held++ {
		if n, ok := report.PositionsHeld[held]; ok {
			t.AppendRow(table.Row{held, n})
		}
	}
	t.Render()

	if len(report.MultiHolders) > 0 {
		fmt.Printf("\n%sHeld more than one office%s\n", ui.ColorBold, ui.ColorReset)
		t := newTable()
		t.AppendHeader(table.Row{"Name", "Offices"})
		for _, h := range report.MultiHolders {
			titles := make([]string, len(h.Positions))
			for i, slug := range h.Positions {
				titles[i] = positionTitle(slug)
			}
			t.AppendRow(table.Row{h.Name, strings.Join(titles, ", ")})
		}
		t.Render()
	}
	return nil
}
