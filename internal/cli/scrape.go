// internal/cli/scrape.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/scrape"
	"github.com/tr-officials/atlas/internal/ui"
	"github.com/tr-officials/atlas/internal/utils/output"
	"github.com/tr-officials/atlas/pkg/models"
)

var (
	scrapeSlugs    []string
	scrapeCSV      bool
	biosForce      bool
	biosLimit      int
	biosGuessLinks bool
)

// scrapeCmd groups the two scraping phases
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape Turkish Wikipedia into the local database",
}

var scrapeListsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Scrape the roster of every tracked office",
	Long: `Fetches the Turkish Wikipedia list page of each tracked office, extracts
the officeholder table, and replaces that office's rows in the database.
Rows keep their on-page order; every scraped cell is preserved.`,
	Example: `  # Scrape all tracked offices
  atlas scrape lists

  # Only two offices, and drop a CSV per office next to the database
  atlas scrape lists --position prime_minister --position minister_of_interior --csv`,
	Args: cobra.NoArgs,
	RunE: runScrapeLists,
}

var scrapeBiosCmd = &cobra.Command{
	Use:   "bios",
	Short: "Fetch person pages and extract birth data",
	Long: `Collects the distinct person-page URLs referenced by the scraped rosters,
fetches the ones still missing birth data, and writes the extracted birth
date, year, birthplace, and lead excerpt back to every row sharing the URL.`,
	Example: `  # Fetch pages for officials without birth data yet
  atlas scrape bios

  # Re-fetch everything, eight pages in flight
  atlas scrape bios --force --workers 8

  # Try to find pages for rows the list table never linked
  atlas scrape bios --guess-links`,
	Args: cobra.NoArgs,
	RunE: runScrapeBios,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.AddCommand(scrapeListsCmd)
	scrapeCmd.AddCommand(scrapeBiosCmd)

	scrapeListsCmd.Flags().StringArrayVar(&scrapeSlugs, "position", nil, "Office slug to scrape (repeatable; default all)")
	scrapeListsCmd.Flags().BoolVar(&scrapeCSV, "csv", false, "Also write a CSV per office into the export directory")

	scrapeBiosCmd.Flags().BoolVar(&biosForce, "force", false, "Re-fetch person pages that already have birth data")
	scrapeBiosCmd.Flags().IntVar(&biosLimit, "limit", 0, "Stop after N person pages (0 = no limit)")
	scrapeBiosCmd.Flags().BoolVar(&biosGuessLinks, "guess-links", false, "Guess page URLs for rows without a Wikipedia link")
}

func runScrapeLists(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()

	targets, err := resolvePositions(scrapeSlugs)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scraping list pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	type listResult struct {
		pos    models.Position
		rows   int
		status string
	}
	results := make([]listResult, 0, len(targets))
	scraped := 0

	for _, pos := range targets {
		res := listResult{pos: pos, status: "ok"}

		doc, _, err := appCtx.Fetcher.Fetch(ctx, pos.ListURL)
		if err != nil {
			log.Error().Err(err).Str("position", pos.Slug).Msg("List page fetch failed")
			res.status = "fetch failed"
			results = append(results, res)
			_ = bar.Add(1)
			continue
		}

		officials := scrape.ExtractRoster(doc, pos)
		if len(officials) == 0 {
			log.Warn().Str("position", pos.Slug).Msg("No roster rows extracted")
			res.status = "empty"
			results = append(results, res)
			_ = bar.Add(1)
			continue
		}

		if err := appCtx.Store.ReplaceRoster(ctx, pos, officials); err != nil {
			return fmt.Errorf("store roster for %s: %w", pos.Slug, err)
		}
		res.rows = len(officials)
		scraped++

		if scrapeCSV {
			dir := appCtx.Config.ExportDir
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			csvPath := filepath.Join(dir, pos.Slug+".csv")
			if err := output.SaveOfficialsCSV(csvPath, officials); err != nil {
				log.Warn().Err(err).Str("path", csvPath).Msg("CSV write failed")
				res.status = "ok (csv failed)"
			}
		}

		results = append(results, res)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	t := newTable()
	t.AppendHeader(table.Row{"Office", "Rows", "Status"})
	for _, r := range results {
		t.AppendRow(table.Row{r.pos.Title, r.rows, r.status})
	}
	t.Render()

	if scraped == 0 {
		return fmt.Errorf("no office could be scraped")
	}
	fmt.Printf("%s✓%s Stored rosters for %d of %d offices in %s\n",
		ui.ColorGreen, ui.ColorReset, scraped, len(targets), appCtx.Config.DatabasePath)
	return nil
}

func runScrapeBios(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()

	if biosGuessLinks {
		if err := guessMissingLinks(cmd); err != nil {
			return err
		}
	}

	urls, err := appCtx.Store.PersonURLs(ctx, !biosForce)
	if err != nil {
		return err
	}
	if biosLimit > 0 && len(urls) > biosLimit {
		urls = urls[:biosLimit]
	}
	if len(urls) == 0 {
		fmt.Println("Nothing to fetch; every linked official already has birth data.")
		return nil
	}

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Fetching person pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var updatedRows int64
	fetched, failed, empty := 0, 0, 0

	pool := scrape.NewPool(appCtx.Fetcher, appCtx.Config.BioWorkers)
	// onResult runs on the collecting goroutine, so store writes stay serial.
	pool.Run(ctx, urls, func(r models.FetchResult) {
		_ = bar.Add(1)
		switch {
		case r.Err != nil:
			failed++
			log.Warn().Err(r.Err).Str("url", r.URL).Msg("Person page failed")
		case r.Info.Empty():
			empty++
			log.Debug().Str("url", r.URL).Msg("No birth data on page")
		default:
			fetched++
			n, err := appCtx.Store.UpdateBirthInfo(ctx, r.URL, r.Info)
			if err != nil {
				log.Error().Err(err).Str("url", r.URL).Msg("Birth info write failed")
				return
			}
			updatedRows += n
		}
	})
	_ = bar.Finish()

	fmt.Printf("%s✓%s %d pages yielded birth data (%d rows updated), %d had none, %d failed\n",
		ui.ColorGreen, ui.ColorReset, fetched, updatedRows, empty, failed)
	return nil
}

// guessMissingLinks builds page URLs from official names for roster rows the
// list table never linked, adopting each URL whose page actually resolves.
func guessMissingLinks(cmd *cobra.Command) error {
	appCtx := GetAppFromCmd(cmd)
	ctx := cmd.Context()

	names, err := appCtx.Store.NamesWithoutLinks(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	adopted := 0
	for _, name := range names {
		guessURL := scrape.GuessPageURL(name)
		if guessURL == "" || !scrape.IsPersonPage(guessURL) {
			continue
		}
		if _, _, err := appCtx.Fetcher.Fetch(ctx, guessURL); err != nil {
			log.Debug().Err(err).Str("name", name).Str("url", guessURL).Msg("Guessed page did not resolve")
			continue
		}
		n, err := appCtx.Store.SetWikiURLByName(ctx, name, guessURL)
		if err != nil {
			return err
		}
		if n > 0 {
			adopted++
			log.Debug().Str("name", name).Str("url", guessURL).Msg("Adopted guessed page URL")
		}
	}
	fmt.Printf("Guessed page URLs for %d of %d unlinked officials\n", adopted, len(names))
	return nil
}

// resolvePositions maps --position flags to registry entries, defaulting to
// every tracked office when none are given.
func resolvePositions(slugs []string) ([]models.Position, error) {
	if len(slugs) == 0 {
		return scrape.Positions, nil
	}
	targets := make([]models.Position, 0, len(slugs))
	for _, slug := range slugs {
		pos, ok := scrape.PositionBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("unknown position %q (known: %s)", slug, strings.Join(scrape.PositionSlugs(), ", "))
		}
		targets = append(targets, pos)
	}
	return targets, nil
}
