// internal/cli/fix.go
package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tr-officials/atlas/internal/store"
	"github.com/tr-officials/atlas/internal/ui"
)

var (
	fixFile   string
	fixDryRun bool
)

// birthOverride is one manual correction, matched by exact official name.
type birthOverride struct {
	Name       string `yaml:"name"`
	BirthPlace string `yaml:"birth_place"`
	BirthYear  int    `yaml:"birth_year"`
}

// fixCmd applies manual data corrections
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply manual birthplace and birth year overrides",
	Long: `Reads a YAML list of corrections and applies each to every stored row
with a matching name. Wikipedia sometimes lacks or garbles birth data for
early-republic officials; this is the escape hatch.

The file is a list of entries:

  - name: Fethi Okyar
    birth_place: Pirlepe
    birth_year: 1880

A zero or absent birth_year leaves the stored year untouched.`,
	Example: `  # See what would change
  atlas fix --file overrides.yaml --dry-run

  # Apply
  atlas fix --file overrides.yaml`,
	Args: cobra.NoArgs,
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringVar(&fixFile, "file", "", "YAML file with override entries (required)")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Report matches without writing")
	_ = fixCmd.MarkFlagRequired("file")
}

func runFix(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()

	raw, err := os.ReadFile(fixFile)
	if err != nil {
		return fmt.Errorf("read overrides: %w", err)
	}
	var overrides []birthOverride
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse overrides: %w", err)
	}
	if len(overrides) == 0 {
		return fmt.Errorf("%s contains no entries", fixFile)
	}
	for i, o := range overrides {
		if o.Name == "" {
			return fmt.Errorf("entry %d has no name", i+1)
		}
		if o.BirthPlace == "" && o.BirthYear == 0 {
			return fmt.Errorf("entry %q sets neither birth_place nor birth_year", o.Name)
		}
	}

	if fixDryRun {
		return reportOverrideMatches(cmd, overrides)
	}

	t := newTable()
	t.AppendHeader(table.Row{"Name", "Rows", "Birthplace", "Year"})
	applied := int64(0)
	for _, o := range overrides {
		n, err := appCtx.Store.OverrideBirthplace(ctx, o.Name, o.BirthPlace, o.BirthYear)
		if err != nil {
			return fmt.Errorf("override %q: %w", o.Name, err)
		}
		t.AppendRow(table.Row{o.Name, n, o.BirthPlace, yearCell(o.BirthYear)})
		applied += n
	}
	t.Render()

	fmt.Printf("%s✓%s Updated %d rows from %d overrides\n", ui.ColorGreen, ui.ColorReset, applied, len(overrides))
	return nil
}

// reportOverrideMatches previews how many rows each entry would touch.
func reportOverrideMatches(cmd *cobra.Command, overrides []birthOverride) error {
	appCtx := GetAppFromCmd(cmd)
	officials, err := appCtx.Store.Officials(cmd.Context(), store.Filter{})
	if err != nil {
		return err
	}

	byName := make(map[string]int)
	for _, o := range officials {
		byName[o.Name]++
	}

	t := newTable()
	t.AppendHeader(table.Row{"Name", "Rows", "Birthplace", "Year"})
	total := 0
	for _, o := range overrides {
		n := byName[o.Name]
		t.AppendRow(table.Row{o.Name, n, o.BirthPlace, yearCell(o.BirthYear)})
		total += n
	}
	t.Render()

	fmt.Printf("Dry run: %d rows would be updated\n", total)
	return nil
}

func yearCell(year int) string {
	if year == 0 {
		return "(keep)"
	}
	return fmt.Sprintf("%d", year)
}
