// Package mapgen renders officials' birthplaces as a self-contained Leaflet
// HTML map, either as graduated circles on province centers or as a
// province-boundary choropleth.
package mapgen

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tr-officials/atlas/internal/geo"
	"github.com/tr-officials/atlas/pkg/models"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// MapData is the input for one rendered map.
type MapData struct {
	Title      string
	Counts     map[string]int      // canonical province -> officials born there
	Names      map[string][]string // canonical province -> distinct names, for popups
	Choropleth bool
	GeoJSON    []byte // province boundaries, required in choropleth mode
}

// Circle is one graduated marker on the map.
type Circle struct {
	City    string
	Lat     float64
	Lon     float64
	Count   int
	Radius  float64
	Opacity float64
	Color   string
	Popup   string
	Tooltip string
}

type legendRow struct {
	Color string
	Label string
}

var choroplethLegend = []legendRow{
	{"#2d3a1a", "7+"},
	{"#3d4a2a", "5-6"},
	{"#4b5320", "3-4"},
	{"#697843", "2"},
	{"#8a9a5b", "1"},
	{"#e8e8e8", "0"},
}

type templateData struct {
	Title      string
	Choropleth bool
	Circles    []Circle
	GeoJSON    template.JS
	Legend     []legendRow
}

// Counts aggregates officials by canonical birth province. Rows whose
// birthplace does not normalize to a province are left out; names are
// deduplicated per province in first-seen order.
func Counts(officials []models.Official) (map[string]int, map[string][]string) {
	counts := map[string]int{}
	names := map[string][]string{}
	seen := map[string]map[string]bool{}

	for _, o := range officials {
		if o.BirthPlace == "" {
			continue
		}
		province, ok := geo.Normalize(o.BirthPlace)
		if !ok {
			continue
		}
		counts[province]++
		if seen[province] == nil {
			seen[province] = map[string]bool{}
		}
		if !seen[province][o.Name] {
			seen[province][o.Name] = true
			names[province] = append(names[province], o.Name)
		}
	}
	return counts, names
}

// WriteMap renders the map HTML to w.
func WriteMap(w io.Writer, data MapData) error {
	td := templateData{
		Title:      data.Title,
		Choropleth: data.Choropleth,
	}
	if data.Choropleth {
		geoJSON, err := buildChoropleth(data.GeoJSON, data.Counts, data.Names)
		if err != nil {
			return err
		}
		td.GeoJSON = geoJSON
		td.Legend = choroplethLegend
	} else {
		td.Circles = buildCircles(data.Counts)
	}
	return mapTemplate.ExecuteTemplate(w, "map.html.tmpl", td)
}

// SaveMap renders the map into path, creating parent directories.
func SaveMap(path string, data MapData) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMap(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// buildCircles turns province counts into graduated circles, largest count
// first. Radius, opacity and the green gradient scale against the maximum.
func buildCircles(counts map[string]int) []Circle {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}

	circles := make([]Circle, 0, len(counts))
	for city, count := range counts {
		lat, lon, ok := geo.Centroid(city)
		if !ok {
			continue
		}
		share := float64(count) / float64(max)
		intensity := int(50 + share*150)
		g := intensity + 50
		if g > 200 {
			g = 200
		}
		circles = append(circles, Circle{
			City:    city,
			Lat:     lat,
			Lon:     lon,
			Count:   count,
			Radius:  5000 + share*50000,
			Opacity: 0.3 + share*0.5,
			Color:   fmt.Sprintf("#%02x%02x%02x", intensity, g, intensity),
			Popup:   fmt.Sprintf("<b>%s</b><br>%d officials", html.EscapeString(city), count),
			Tooltip: fmt.Sprintf("%s: %d", city, count),
		})
	}
	sort.Slice(circles, func(i, j int) bool {
		if circles[i].Count != circles[j].Count {
			return circles[i].Count > circles[j].Count
		}
		return circles[i].City < circles[j].City
	})
	return circles
}

// bucketColor maps a province count onto the military-green scale.
func bucketColor(count int) string {
	switch {
	case count >= 7:
		return "#2d3a1a"
	case count >= 5:
		return "#3d4a2a"
	case count >= 3:
		return "#4b5320"
	case count == 2:
		return "#697843"
	case count == 1:
		return "#8a9a5b"
	default:
		return "#e8e8e8"
	}
}

func provincePopup(name string, count int, people []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>%d officials", html.EscapeString(name), count)
	if len(people) == 0 {
		return b.String()
	}
	shown := people
	if len(shown) > 10 {
		shown = shown[:10]
	}
	b.WriteString("<hr><ul>")
	for _, p := range shown {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(p))
	}
	b.WriteString("</ul>")
	if rest := len(people) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "... and %d more", rest)
	}
	return b.String()
}
