package mapgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tr-officials/atlas/internal/fetch"
	"github.com/tr-officials/atlas/internal/geo"
)

// boundarySources lists known Turkey province boundary mirrors, tried in
// order until one returns a usable FeatureCollection.
var boundarySources = []string{
	"https://raw.githubusercontent.com/cihadturhan/tr-geojson/master/il-utf8.json",
	"https://raw.githubusercontent.com/cihadturhan/tr-geojson/master/il.json",
	"https://raw.githubusercontent.com/alpers/Turkey-Maps-GeoJSON/master/tr-cities-utf8.json",
	"https://raw.githubusercontent.com/gazcreate/Turkey-Maps-Geojson/refs/heads/master/turkey-cities.json",
}

type featureCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// featureName reads the province name from whichever property key the
// source dataset uses.
func featureName(props map[string]any) string {
	for _, key := range []string{"name", "NAME", "il_adi"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// FetchProvinces downloads province boundaries from the first source that
// yields a non-empty FeatureCollection.
func FetchProvinces(ctx context.Context, fetcher *fetch.Fetcher) ([]byte, error) {
	var lastErr error
	for _, url := range boundarySources {
		raw, err := fetcher.FetchBytes(ctx, url)
		if err == nil {
			err = ValidateProvinces(raw)
		}
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", url, err)
			log.Warn().Str("url", url).Err(err).Msg("Boundary source failed")
			continue
		}
		log.Debug().Str("url", url).Int("bytes", len(raw)).Msg("Boundary data fetched")
		return raw, nil
	}
	return nil, fmt.Errorf("all boundary sources failed: %w", lastErr)
}

// ValidateProvinces checks that raw parses as a FeatureCollection with at
// least one feature.
func ValidateProvinces(raw []byte) error {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode boundaries: %w", err)
	}
	if len(fc.Features) == 0 {
		return errors.New("boundary data has no features")
	}
	return nil
}

// SaveProvinces writes boundary data for reuse across runs.
func SaveProvinces(path string, raw []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadProvinces reads a previously saved boundary file.
func LoadProvinces(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateProvinces(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// buildChoropleth colors each boundary feature by its province count and
// attaches the popup HTML, returning the reencoded collection for direct
// embedding in the map script.
func buildChoropleth(raw []byte, counts map[string]int, names map[string][]string) (template.JS, error) {
	if len(raw) == 0 {
		return "", errors.New("choropleth mode needs province boundaries")
	}
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return "", fmt.Errorf("decode boundaries: %w", err)
	}
	if len(fc.Features) == 0 {
		return "", errors.New("boundary data has no features")
	}

	for i := range fc.Features {
		f := &fc.Features[i]
		name := featureName(f.Properties)
		key := name
		if canon, ok := geo.Normalize(name); ok {
			key = canon
		}
		count := counts[key]
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		f.Properties["count"] = count
		f.Properties["fill"] = bucketColor(count)
		f.Properties["popup"] = provincePopup(name, count, names[key])
	}

	out, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("encode choropleth: %w", err)
	}
	return template.JS(out), nil
}
