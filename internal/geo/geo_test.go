package geo

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"İstanbul, Türkiye", "İstanbul"},
		{"Ankara[1]", "Ankara"},
		{"Eyüp, İstanbul", "İstanbul"},
		{"Divriği, Sivas, Osmanlı Devleti", "Sivas"},
		{"Selanik, Yunanistan", "Selanik"},
		{"Üsküp, Osmanlı İmparatorluğu", "Üsküp"},
		{"  Trabzon  ", "Trabzon"},
		{"", ""},
		{"?", ""},
		{"Türkiye", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"exact", "Ankara", "Ankara", true},
		{"country tail", "İstanbul, Türkiye", "İstanbul", true},
		{"district then province", "Kadıköy, İstanbul", "İstanbul", true},
		{"historical alias", "Adapazarı", "Sakarya", true},
		{"short form alias", "Afyon", "Afyonkarahisar", true},
		{"district alias", "Alaşehir", "Manisa", true},
		{"old capital alias", "Antakya", "Hatay", true},
		{"ascii dotted i", "Istanbul", "İstanbul", true},
		{"containment", "İstanbul Beyoğlu", "İstanbul", true},
		{"fuzzy misspelling", "Ankkara", "Ankara", true},
		{"empire tail kept out", "Divriği, Sivas, Osmanlı İmparatorluğu", "Sivas", true},
		{"abroad", "Selanik", "", false},
		{"abroad behind country", "Üsküp, Makedonya", "", false},
		{"no match", "Paris", "", false},
		{"empty", "", "", false},
		{"question mark", "?", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	lat, lon, ok := Centroid("Ankara")
	if !ok {
		t.Fatal("Centroid(Ankara) not found")
	}
	if lat != 39.9334 || lon != 32.8597 {
		t.Errorf("Centroid(Ankara) = %v, %v", lat, lon)
	}

	if _, _, ok := Centroid("ankara"); !ok {
		t.Error("Centroid should be case-insensitive")
	}
	if _, _, ok := Centroid("Atlantis"); ok {
		t.Error("Centroid(Atlantis) should not resolve")
	}
}

func TestProvinceTable(t *testing.T) {
	if len(Provinces) != 81 {
		t.Fatalf("province table has %d entries, want 81", len(Provinces))
	}

	seen := map[string]bool{}
	for _, p := range Provinces {
		if seen[p.Name] {
			t.Errorf("duplicate province %q", p.Name)
		}
		seen[p.Name] = true
		if p.Lat < 35 || p.Lat > 43 || p.Lon < 25 || p.Lon > 45 {
			t.Errorf("%s coordinates (%v, %v) outside Turkey's bounding box", p.Name, p.Lat, p.Lon)
		}
	}

	// Every alias must resolve to a real province.
	for from, to := range aliases {
		if _, _, ok := Centroid(to); !ok {
			t.Errorf("alias %q points at unknown province %q", from, to)
		}
	}
}
