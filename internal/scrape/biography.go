package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tr-officials/atlas/internal/utils/output"
	"github.com/tr-officials/atlas/pkg/models"
)

var (
	// Gregorian years only; Ottoman-era articles quote Hijri years like 1315
	// that the range excludes.
	birthYearRe = regexp.MustCompile(`\b(18\d{2}|19\d{2}|20\d{2})\b`)

	leadYearRe  = regexp.MustCompile(`(?:d\.\s*)?(?:\d{1,2}\s+\p{L}+\s+)?\b(1\d{3}|20\d{2})\b`)
	leadPlaceRe = regexp.MustCompile(`d\.\s*\d+[^,]*,\s*([^)]+)`)

	leadingDigitRe = regexp.MustCompile(`^\d`)
	yearDigitsRe   = regexp.MustCompile(`\d{4}`)
	dateFragmentRe = regexp.MustCompile(`\d+\s+\p{L}+\s+\d{4}`)
	parenRe        = regexp.MustCompile(`\([^)]*\)`)
	commaNewlineRe = regexp.MustCompile(`[,\n]`)

	countryTailRe = regexp.MustCompile(`,?\s*(Türkiye|Turkey)\s*$`)

	categoryBirthRe = regexp.MustCompile(`^(.+?)\s+doğumlular$`)

	// Turkish prose birth statements: "Ankara'da doğdu", "doğum yeri: İzmir",
	// "Sivas doğumlu".
	prosePlaceRes = []*regexp.Regexp{
		regexp.MustCompile(`([A-ZİĞÜŞÖÇ][a-zığüşöç]+(?:\s+[A-ZİĞÜŞÖÇ][a-zığüşöç]+)*)['’](?:da|de|ta|te)\s+doğ`),
		regexp.MustCompile(`doğum\s+yeri[:\s]+([A-ZİĞÜŞÖÇ][a-zığüşöç]+(?:\s+[A-ZİĞÜŞÖÇ][a-zığüşöç]+)*)`),
		regexp.MustCompile(`([A-ZİĞÜŞÖÇ][a-zığüşöç]+(?:\s+[A-ZİĞÜŞÖÇ][a-zığüşöç]+)*)\s+doğumlu`),
	}
)

// ExtractBirthInfo pulls birth date, year, and place from a person page,
// plus the lead paragraph as a Markdown excerpt. Strategies run cheapest
// first: exact infobox row, loose infobox row, lead paragraph patterns,
// birth categories, Turkish prose.
func ExtractBirthInfo(doc *goquery.Document, pageURL string) models.BirthInfo {
	output.StripReferences(doc.Selection)

	// Infobox cells separate date from place with <br>, which would otherwise
	// vanish when reading text and glue "1938" to "Ankara".
	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})

	var info models.BirthInfo

	infoboxExact(doc, &info)
	if info.BirthPlace == "" {
		infoboxLoose(doc, &info)
	}
	if info.BirthYear == 0 {
		leadYear(doc, &info)
	}
	if info.BirthPlace == "" {
		leadPlace(doc, &info)
	}
	if info.BirthPlace == "" {
		categoryPlace(doc, &info)
	}
	if info.BirthPlace == "" {
		prosePlace(doc, &info)
	}

	info.BirthPlace = trimCountryTail(info.BirthPlace)
	info.Excerpt = leadExcerpt(doc, pageURL)

	return info
}

// infoboxExact reads the row whose header is exactly Doğum (or the
// abbreviated Doğ.). Linked locations win over free text because dates are
// rarely linked and places almost always are.
func infoboxExact(doc *goquery.Document, info *models.BirthInfo) {
	doc.Find("table.infobox tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		th := row.Find("th").First()
		if th.Length() == 0 {
			return true
		}
		header := lowerTR(strings.TrimSpace(th.Text()))
		if header != "doğum" && header != "doğ." {
			return true
		}
		td := row.Find("td").First()
		if td.Length() == 0 {
			return true
		}

		value := cleanText(td.Text())
		info.BirthDate = value
		if m := birthYearRe.FindString(value); m != "" {
			info.BirthYear, _ = strconv.Atoi(m)
		}

		var locations []string
		td.Find("a").Each(func(_ int, a *goquery.Selection) {
			text := strings.TrimSpace(a.Text())
			if text == "" || leadingDigitRe.MatchString(text) || len([]rune(text)) <= 2 {
				return
			}
			locations = append(locations, text)
		})

		if len(locations) > 0 {
			info.BirthPlace = strings.Join(locations, ", ")
		} else {
			place := dateFragmentRe.ReplaceAllString(value, "")
			place = parenRe.ReplaceAllString(place, "")
			place = strings.Trim(place, "., ")
			if len([]rune(place)) > 2 {
				info.BirthPlace = place
			}
		}
		return false
	})
}

// infoboxLoose takes any row whose header mentions doğum and walks the
// comma/newline-separated value: the part after a dated part, or any later
// non-dated part, is the place.
func infoboxLoose(doc *goquery.Document, info *models.BirthInfo) {
	doc.Find("table.infobox tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		th := row.Find("th").First()
		if th.Length() == 0 || !strings.Contains(lowerTR(th.Text()), "doğum") {
			return true
		}
		td := row.Find("td").First()
		if td.Length() == 0 {
			return true
		}

		parts := commaNewlineRe.Split(td.Text(), -1)
		for i, part := range parts {
			part = strings.TrimSpace(refMarkerRe.ReplaceAllString(part, ""))
			if part == "" {
				continue
			}
			if yearDigitsRe.MatchString(part) {
				if i+1 < len(parts) {
					next := trimCountryTail(strings.TrimSpace(parts[i+1]))
					if len([]rune(next)) > 1 && !yearDigitsRe.MatchString(next) {
						info.BirthPlace = next
						return false
					}
				}
				continue
			}
			if i > 0 {
				if loc := trimCountryTail(part); len([]rune(loc)) > 1 {
					info.BirthPlace = loc
					return false
				}
			}
		}
		return false
	})
}

func leadYear(doc *goquery.Document, info *models.BirthInfo) {
	para := firstParagraphText(doc)
	if para == "" {
		return
	}
	if m := leadYearRe.FindStringSubmatch(para); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil && validBirthYear(y) {
			info.BirthYear = y
		}
	}
}

func leadPlace(doc *goquery.Document, info *models.BirthInfo) {
	para := firstParagraphText(doc)
	if para == "" {
		return
	}
	if m := leadPlaceRe.FindStringSubmatch(para); m != nil {
		if place := strings.TrimSpace(m[1]); place != "" {
			info.BirthPlace = place
		}
	}
}

// categoryPlace reads the article's birth category ("İstanbul doğumlular").
func categoryPlace(doc *goquery.Document, info *models.BirthInfo) {
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "Kategori") && !strings.Contains(href, "Category") {
			return true
		}
		if m := categoryBirthRe.FindStringSubmatch(strings.TrimSpace(a.Text())); m != nil {
			info.BirthPlace = m[1]
			return false
		}
		return true
	})
}

func prosePlace(doc *goquery.Document, info *models.BirthInfo) {
	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= 5 {
			return false
		}
		text := p.Text()
		for _, re := range prosePlaceRes {
			if m := re.FindStringSubmatch(text); m != nil {
				info.BirthPlace = m[1]
				return false
			}
		}
		return true
	})
}

// leadExcerpt converts the first substantial paragraph to Markdown.
func leadExcerpt(doc *goquery.Document, pageURL string) string {
	var excerpt string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if len([]rune(strings.TrimSpace(p.Text()))) < 20 {
			return true
		}
		html, err := goquery.OuterHtml(p)
		if err != nil {
			return false
		}
		md, err := output.HTMLToMarkdown(pageURL, html)
		if err != nil {
			return false
		}
		excerpt = md
		return false
	})
	return excerpt
}

func firstParagraphText(doc *goquery.Document) string {
	var text string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		t := strings.TrimSpace(p.Text())
		if t == "" {
			return true
		}
		text = t
		return false
	})
	return text
}

func validBirthYear(y int) bool {
	return y >= 1800 && y <= 2099
}

func trimCountryTail(place string) string {
	if place == "" {
		return ""
	}
	place = countryTailRe.ReplaceAllString(place, "")
	return strings.Trim(place, "., ")
}
