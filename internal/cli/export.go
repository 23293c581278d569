// internal/cli/export.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/store"
	"github.com/tr-officials/atlas/internal/ui"
	"github.com/tr-officials/atlas/internal/utils/output"
)

var (
	exportDir    string
	exportFormat string
)

// exportCmd writes the stored rosters out as files
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored rosters to files, one per office",
	Long: `Writes every office's stored roster into the export directory. CSV files
carry a UTF-8 byte order mark so Turkish characters survive Excel.`,
	Example: `  # CSV files into the default export directory
  atlas export

  # Markdown tables into docs/
  atlas export --dir docs --format markdown`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Target directory (default the configured export dir)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, or markdown")
}

func runExport(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()

	ext := ""
	switch exportFormat {
	case "csv":
		ext = ".csv"
	case "json":
		ext = ".json"
	case "markdown":
		ext = ".md"
	default:
		return fmt.Errorf("invalid format: %s (must be csv, json, or markdown)", exportFormat)
	}

	dir := exportDir
	if dir == "" {
		dir = appCtx.Config.ExportDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	positions, err := appCtx.Store.Positions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		fmt.Println("Database is empty; run \"atlas scrape lists\" first.")
		return nil
	}

	written := 0
	for _, pos := range positions {
		officials, err := appCtx.Store.Officials(ctx, store.Filter{Position: pos.Slug})
		if err != nil {
			return err
		}
		if len(officials) == 0 {
			continue
		}

		path := filepath.Join(dir, pos.Slug+ext)
		switch exportFormat {
		case "csv":
			err = output.SaveOfficialsCSV(path, officials)
		case "json":
			err = output.SaveOfficialsJSON(path, officials)
		case "markdown":
			err = output.SaveOfficialsMarkdown(path, pos.Title, officials)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Debug().Str("path", path).Int("rows", len(officials)).Msg("Roster exported")
		written++
	}

	fmt.Printf("%s✓%s Exported %d offices to %s\n", ui.ColorGreen, ui.ColorReset, written, dir)
	return nil
}
