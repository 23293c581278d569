package mapgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tr-officials/atlas/pkg/models"
)

const boundaries = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"İstanbul"},"geometry":{"type":"Polygon","coordinates":[[[28.5,41.0],[29.5,41.0],[29.0,41.5],[28.5,41.0]]]}},
{"type":"Feature","properties":{"il_adi":"Ankara"},"geometry":{"type":"Polygon","coordinates":[[[32.0,39.5],[33.5,39.5],[33.0,40.2],[32.0,39.5]]]}}
]}`

func TestCounts(t *testing.T) {
	officials := []models.Official{
		{PositionSlug: "prime_minister", Name: "İsmet İnönü", BirthPlace: "İzmir"},
		{PositionSlug: "speaker", Name: "İsmet İnönü", BirthPlace: "İzmir"},
		{PositionSlug: "prime_minister", Name: "Fethi Okyar", BirthPlace: "Pirlepe"},
		{PositionSlug: "minister_of_interior", Name: "Test Aksoy", BirthPlace: "Kadıköy, İstanbul"},
		{PositionSlug: "minister_of_interior", Name: "Adsız Kayıt"},
	}

	counts, names := Counts(officials)

	if counts["İzmir"] != 2 || counts["İstanbul"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts["Pirlepe"]; ok {
		t.Error("abroad birthplace mapped onto a province")
	}
	if got := names["İzmir"]; len(got) != 1 || got[0] != "İsmet İnönü" {
		t.Errorf("names[İzmir] = %v, want the name once", got)
	}
}

func TestWriteMap_Circles(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMap(&buf, MapData{
		Title:  "Turkish Officials Birthplaces (1920-2024)",
		Counts: map[string]int{"İstanbul": 12, "Ankara": 3},
	})
	if err != nil {
		t.Fatalf("WriteMap() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Turkish Officials Birthplaces (1920-2024)",
		"L.circle",
		"cartocdn.com",
		// max count: radius 5000+50000, opacity 0.8, gradient top
		"55000",
		"0.8",
		"#c8c8c8",
		// 3 of 12: radius 17500, opacity 0.425
		"17500",
		"0.425",
		"#578957",
		"İstanbul: 12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("map output missing %q", want)
		}
	}
	if strings.Contains(out, "L.geoJSON") {
		t.Error("circle map rendered the choropleth layer")
	}
}

func TestWriteMap_Choropleth(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMap(&buf, MapData{
		Title:      "Birthplaces by Province",
		Choropleth: true,
		GeoJSON:    []byte(boundaries),
		Counts:     map[string]int{"İstanbul": 8},
		Names:      map[string][]string{"İstanbul": {"İsmet İnönü", "Test Aksoy"}},
	})
	if err != nil {
		t.Fatalf("WriteMap() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"L.geoJSON",
		"#2d3a1a", // 8 officials, darkest bucket
		"#e8e8e8", // Ankara has none
		"İsmet İnönü",
		"7+", // legend
	} {
		if !strings.Contains(out, want) {
			t.Errorf("choropleth output missing %q", want)
		}
	}
	if strings.Contains(out, "L.circle") {
		t.Error("choropleth rendered circle markers")
	}
}

func TestWriteMap_ChoroplethNeedsBoundaries(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMap(&buf, MapData{Choropleth: true, Counts: map[string]int{"Ankara": 1}})
	if err == nil {
		t.Fatal("WriteMap() should fail without boundary data")
	}
}

func TestBucketColor(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{10, "#2d3a1a"},
		{7, "#2d3a1a"},
		{6, "#3d4a2a"},
		{5, "#3d4a2a"},
		{4, "#4b5320"},
		{3, "#4b5320"},
		{2, "#697843"},
		{1, "#8a9a5b"},
		{0, "#e8e8e8"},
	}
	for _, tt := range tests {
		if got := bucketColor(tt.count); got != tt.want {
			t.Errorf("bucketColor(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestValidateProvinces(t *testing.T) {
	if err := ValidateProvinces([]byte(boundaries)); err != nil {
		t.Errorf("valid boundaries rejected: %v", err)
	}
	if err := ValidateProvinces([]byte(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Error("empty feature list accepted")
	}
	if err := ValidateProvinces([]byte(`not json`)); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestSaveLoadProvinces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo", "turkey_provinces.geojson")

	if err := SaveProvinces(path, []byte(boundaries)); err != nil {
		t.Fatalf("SaveProvinces() error = %v", err)
	}
	raw, err := LoadProvinces(path)
	if err != nil {
		t.Fatalf("LoadProvinces() error = %v", err)
	}
	if string(raw) != boundaries {
		t.Error("loaded boundaries differ from saved")
	}

	if _, err := LoadProvinces(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Error("missing file load succeeded")
	}

	bad := filepath.Join(t.TempDir(), "bad.geojson")
	if err := os.WriteFile(bad, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProvinces(bad); err == nil {
		t.Error("invalid boundary file load succeeded")
	}
}
