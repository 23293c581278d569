// Package scrape turns Turkish Wikipedia pages into typed records: roster
// rows from the position list tables, birth fields from person-page
// infoboxes and lead paragraphs.
package scrape

import "github.com/tr-officials/atlas/pkg/models"

// Positions is the registry of tracked state offices and their Turkish
// Wikipedia list pages, in scrape order.
var Positions = []models.Position{
	{Slug: "speaker_of_the_national_assembly", Title: "Speaker of the National Assembly", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_B%C3%BCy%C3%BCk_Millet_Meclisi_ba%C5%9Fkanlar%C4%B1_listesi"},
	{Slug: "prime_minister", Title: "Prime Minister", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_ba%C5%9Fbakanlar%C4%B1_listesi"},
	{Slug: "president_of_the_constitutional_court", Title: "President of the Constitutional Court", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_Anayasa_Mahkemesi_ba%C5%9Fkanlar%C4%B1_listesi"},
	{Slug: "minister_of_interior", Title: "Minister of Interior", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_i%C3%A7i%C5%9Fleri_bakanlar%C4%B1_listesi"},
	{Slug: "minister_of_foreign_relations", Title: "Minister of Foreign Relations", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_d%C4%B1%C5%9Fi%C5%9Fleri_bakanlar%C4%B1_listesi"},
	{Slug: "minister_of_justice", Title: "Minister of Justice", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_adalet_bakanlar%C4%B1_listesi"},
	{Slug: "minister_of_finance_treasury", Title: "Minister of Finance & Treasury", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_hazine_ve_maliye_bakanlar%C4%B1_listesi"},
	{Slug: "governor_of_the_central_bank", Title: "Governor of the Central Bank", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_Cumhuriyet_Merkez_Bankas%C4%B1_ba%C5%9Fkanlar%C4%B1_listesi"},
	{Slug: "minister_of_education", Title: "Minister of Education", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_mill%C3%AE_e%C4%9Fitim_bakanlar%C4%B1_listesi"},
	{Slug: "minister_of_health", Title: "Minister of Health", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrkiye_sa%C4%9Fl%C4%B1k_bakanlar%C4%B1_listesi"},
	{Slug: "chief_of_general_staff", Title: "Chief of General Staff", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrk_Silahl%C4%B1_Kuvvetleri_genelkurmay_ba%C5%9Fkanlar%C4%B1_listesi"},
	{Slug: "commander_of_the_turkish_army", Title: "Commander of the Turkish Army", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrk_Kara_Kuvvetleri_komutanlar%C4%B1_listesi"},
	{Slug: "commander_of_the_turkish_naval_forces", Title: "Commander of the Turkish Naval Forces", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrk_Deniz_Kuvvetleri_komutanlar%C4%B1_listesi"},
	{Slug: "commander_of_the_turkish_air_forces", Title: "Commander of the Turkish Air Forces", ListURL: "https://tr.wikipedia.org/wiki/T%C3%BCrk_Hava_Kuvvetleri_komutanlar%C4%B1_listesi"},
	{Slug: "head_of_national_intelligence", Title: "Head of National Intelligence", ListURL: "https://tr.wikipedia.org/wiki/Mill%C3%AE_%C4%B0stihbarat_Te%C5%9Fkilat%C4%B1_ba%C5%9Fkanlar%C4%B1_listesi"},
}

// PositionBySlug looks up a registered position.
func PositionBySlug(slug string) (models.Position, bool) {
	for _, p := range Positions {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.Position{}, false
}

// PositionSlugs returns all registered slugs in scrape order.
func PositionSlugs() []string {
	slugs := make([]string, len(Positions))
	for i, p := range Positions {
		slugs[i] = p.Slug
	}
	return slugs
}
