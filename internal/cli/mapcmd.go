// internal/cli/mapcmd.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/mapgen"
	"github.com/tr-officials/atlas/internal/store"
	"github.com/tr-officials/atlas/internal/ui"
)

var (
	mapOut        string
	mapChoropleth bool
	mapGeoJSON    string
	geojsonOut    string
)

// mapCmd renders the birthplace map
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render an interactive birthplace map",
	Long: `Renders a self-contained Leaflet HTML map of where the stored officials
were born. The default style draws a graduated circle per province; with
--choropleth, provinces are filled by count using GeoJSON boundaries
(downloaded on first use and cached under the export directory).`,
	Example: `  # Circle map to map.html
  atlas map

  # Choropleth with locally cached boundaries
  atlas map --choropleth --out birthplaces.html

  # Choropleth from a specific boundary file
  atlas map --choropleth --geojson data/turkey_provinces.geojson`,
	Args: cobra.NoArgs,
	RunE: runMap,
}

// geojsonCmd fetches the boundary file on its own
var geojsonCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Download Turkey province boundaries",
	Long: `Tries a list of public Turkey province GeoJSON sources in order and saves
the first one that parses. The map command uses the saved file offline.`,
	Args: cobra.NoArgs,
	RunE: runGeoJSON,
}

func init() {
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(geojsonCmd)

	mapCmd.Flags().StringVar(&mapOut, "out", "map.html", "Output HTML path")
	mapCmd.Flags().BoolVar(&mapChoropleth, "choropleth", false, "Fill provinces by count instead of drawing circles")
	mapCmd.Flags().StringVar(&mapGeoJSON, "geojson", "", "Province boundary GeoJSON file (default cached copy)")

	geojsonCmd.Flags().StringVar(&geojsonOut, "out", "", "Target file (default <export-dir>/turkey_provinces.geojson)")
}

func runMap(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()

	officials, err := appCtx.Store.Officials(ctx, store.Filter{})
	if err != nil {
		return err
	}
	if len(officials) == 0 {
		return fmt.Errorf("database is empty; run \"atlas scrape lists\" and \"atlas scrape bios\" first")
	}

	counts, names := mapgen.Counts(officials)
	if len(counts) == 0 {
		return fmt.Errorf("no official has a birthplace matching a Turkish province; run \"atlas scrape bios\" first")
	}

	data := mapgen.MapData{
		Title:      "Birthplaces of Turkish State Officials",
		Counts:     counts,
		Names:      names,
		Choropleth: mapChoropleth,
	}

	if mapChoropleth {
		raw, err := loadBoundaries(cmd)
		if err != nil {
			return err
		}
		data.GeoJSON = raw
	}

	if err := mapgen.SaveMap(mapOut, data); err != nil {
		return err
	}
	fmt.Printf("%s✓%s Map with %d provinces written to %s\n", ui.ColorGreen, ui.ColorReset, len(counts), mapOut)
	return nil
}

// loadBoundaries returns province boundary GeoJSON, preferring --geojson, then
// the cached copy, then the network (caching the result).
func loadBoundaries(cmd *cobra.Command) ([]byte, error) {
	appCtx := GetAppFromCmd(cmd)

	if mapGeoJSON != "" {
		return mapgen.LoadProvinces(mapGeoJSON)
	}

	cached := defaultBoundaryPath(cmd)
	if raw, err := mapgen.LoadProvinces(cached); err == nil {
		log.Debug().Str("path", cached).Msg("Using cached province boundaries")
		return raw, nil
	}

	raw, err := mapgen.FetchProvinces(cmd.Context(), appCtx.Fetcher)
	if err != nil {
		return nil, err
	}
	if err := mapgen.SaveProvinces(cached, raw); err != nil {
		log.Warn().Err(err).Str("path", cached).Msg("Could not cache boundaries")
	}
	return raw, nil
}

func defaultBoundaryPath(cmd *cobra.Command) string {
	appCtx := GetAppFromCmd(cmd)
	return filepath.Join(appCtx.Config.ExportDir, "turkey_provinces.geojson")
}

func runGeoJSON(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	out := geojsonOut
	if out == "" {
		out = defaultBoundaryPath(cmd)
	}

	raw, err := mapgen.FetchProvinces(cmd.Context(), appCtx.Fetcher)
	if err != nil {
		return err
	}
	if err := mapgen.SaveProvinces(out, raw); err != nil {
		return err
	}

	info, err := os.Stat(out)
	size := int64(0)
	if err == nil {
		size = info.Size()
	}
	fmt.Printf("%s✓%s Province boundaries saved to %s (%d bytes)\n", ui.ColorGreen, ui.ColorReset, out, size)
	return nil
}
