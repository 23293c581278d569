// Package geo maps free-text birthplace strings to canonical Turkish
// provinces and their coordinates.
package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Province is one of Turkey's 81 administrative provinces.
type Province struct {
	Name string
	Lat  float64
	Lon  float64
}

// Provinces lists the 81 provinces in plate-number order with their
// administrative-center coordinates.
var Provinces = []Province{
	{"Adana", 37.0000, 35.3213},
	{"Adıyaman", 37.7648, 38.2786},
	{"Afyonkarahisar", 38.7507, 30.5567},
	{"Ağrı", 39.7191, 43.0503},
	{"Amasya", 40.6499, 35.8353},
	{"Ankara", 39.9334, 32.8597},
	{"Antalya", 36.8969, 30.7133},
	{"Artvin", 41.1828, 41.8183},
	{"Aydın", 37.8560, 27.8416},
	{"Balıkesir", 39.6484, 27.8826},
	{"Bilecik", 40.1419, 29.9793},
	{"Bingöl", 38.8853, 40.4983},
	{"Bitlis", 38.4004, 42.1093},
	{"Bolu", 40.7339, 31.6061},
	{"Burdur", 37.7267, 30.2889},
	{"Bursa", 40.1826, 29.0665},
	{"Çanakkale", 40.1553, 26.4142},
	{"Çankırı", 40.6013, 33.6134},
	{"Çorum", 40.5506, 34.9556},
	{"Denizli", 37.7765, 29.0864},
	{"Diyarbakır", 37.9144, 40.2306},
	{"Edirne", 41.6771, 26.5557},
	{"Elazığ", 38.6810, 39.2264},
	{"Erzincan", 39.7500, 39.4900},
	{"Erzurum", 39.9000, 41.2700},
	{"Eskişehir", 39.7767, 30.5206},
	{"Gaziantep", 37.0662, 37.3833},
	{"Giresun", 40.9128, 38.3895},
	{"Gümüşhane", 40.4386, 39.4814},
	{"Hakkari", 37.5744, 43.7408},
	{"Hatay", 36.2025, 36.1606},
	{"Isparta", 37.7648, 30.5566},
	{"Mersin", 36.8121, 34.6415},
	{"İstanbul", 41.0082, 28.9784},
	{"İzmir", 38.4237, 27.1428},
	{"Kars", 40.6167, 43.0975},
	{"Kastamonu", 41.3887, 33.7827},
	{"Kayseri", 38.7205, 35.4826},
	{"Kırklareli", 41.7333, 27.2167},
	{"Kırşehir", 39.1425, 34.1709},
	{"Kocaeli", 40.8533, 29.8815},
	{"Konya", 37.8667, 32.4833},
	{"Kütahya", 39.4242, 29.9833},
	{"Malatya", 38.3552, 38.3095},
	{"Manisa", 38.6191, 27.4289},
	{"Kahramanmaraş", 37.5858, 36.9371},
	{"Mardin", 37.3212, 40.7245},
	{"Muğla", 37.2153, 28.3636},
	{"Muş", 38.9462, 41.7539},
	{"Nevşehir", 38.6939, 34.6857},
	{"Niğde", 37.9667, 34.6833},
	{"Ordu", 40.9839, 37.8764},
	{"Rize", 41.0201, 40.5234},
	{"Sakarya", 40.7569, 30.3783},
	{"Samsun", 41.2867, 36.3300},
	{"Siirt", 37.9333, 41.9500},
	{"Sinop", 42.0231, 35.1531},
	{"Sivas", 39.7477, 37.0179},
	{"Tekirdağ", 40.9833, 27.5167},
	{"Tokat", 40.3167, 36.5500},
	{"Trabzon", 41.0015, 39.7178},
	{"Tunceli", 39.3074, 39.4388},
	{"Şanlıurfa", 37.1591, 38.7969},
	{"Uşak", 38.6823, 29.4082},
	{"Van", 38.4891, 43.4089},
	{"Yozgat", 39.8200, 34.8147},
	{"Zonguldak", 41.4564, 31.7987},
	{"Aksaray", 38.3687, 34.0370},
	{"Bayburt", 40.2552, 40.2249},
	{"Karaman", 37.1759, 33.2287},
	{"Kırıkkale", 39.8468, 33.5153},
	{"Batman", 37.8812, 41.1351},
	{"Şırnak", 37.4187, 42.4918},
	{"Bartın", 41.6344, 32.3375},
	{"Ardahan", 41.1105, 42.7022},
	{"Iğdır", 39.8880, 44.0048},
	{"Yalova", 40.6500, 29.2667},
	{"Karabük", 41.2061, 32.6204},
	{"Kilis", 36.7184, 37.1212},
	{"Osmaniye", 37.0742, 36.2478},
	{"Düzce", 40.8438, 31.1565},
}

// aliases maps Turkish-lowercased historical names, district spellings, and
// ASCII-cased forms (which fold to the wrong dotted i under Turkish casing)
// to canonical province names.
var aliases = map[string]string{
	"adapazarı": "Sakarya",
	"afyon":     "Afyonkarahisar",
	"alaşehir":  "Manisa",
	"antakya":   "Hatay",
	"izmit":     "Kocaeli",
	"antep":     "Gaziantep",
	"maraş":     "Kahramanmaraş",
	"urfa":      "Şanlıurfa",
	"hakkâri":   "Hakkari",
	"ıstanbul":  "İstanbul",
	"ızmir":     "İzmir",
	"isparta":   "Isparta",
	"iğdır":     "Iğdır",
}

// abroad marks birthplaces outside modern Turkey, common among early
// republican officials. They must never be matched to a province.
var abroad = map[string]bool{
	"selanik":  true,
	"üsküp":    true,
	"manastır": true,
	"pirlepe":  true,
	"serez":    true,
	"drama":    true,
	"yanya":    true,
	"işkodra":  true,
	"girit":    true,
	"hanya":    true,
	"filibe":   true,
	"sofya":    true,
	"plevne":   true,
	"köstence": true,
	"batum":    true,
	"lefkoşa":  true,
	"kıbrıs":   true,
	"şam":      true,
	"halep":    true,
	"bağdat":   true,
	"kerkük":   true,
	"kahire":   true,
	"priştine": true,
}

var (
	byLower        = make(map[string]*Province, len(Provinces))
	provinceLowers = make([]string, len(Provinces))
)

func init() {
	for i := range Provinces {
		lower := lowerTR(Provinces[i].Name)
		byLower[lower] = &Provinces[i]
		provinceLowers[i] = lower
	}
}

// Centroid returns the coordinates of a canonical province name.
func Centroid(name string) (lat, lon float64, ok bool) {
	p, ok := byLower[lowerTR(name)]
	if !ok {
		return 0, 0, false
	}
	return p.Lat, p.Lon, true
}

func lowerTR(s string) string {
	return cases.Lower(language.Turkish).String(strings.TrimSpace(s))
}
