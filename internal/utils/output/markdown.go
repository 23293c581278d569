package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/tr-officials/atlas/internal/utils/url"
	"github.com/tr-officials/atlas/pkg/models"
)

// HTMLToMarkdown converts an HTML fragment to GitHub-flavored Markdown,
// resolving relative links against baseURL. Used for bio excerpts.
func HTMLToMarkdown(baseURL, fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			resolved := urlutil.ResolveURL(baseURL, href)
			str := fmt.Sprintf("[%s](%s)", selec.Text(), resolved)
			return &str
		},
	})

	cleaned, err := CleanHTML(fragment)
	if err != nil {
		return "", err
	}
	out, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// WriteOfficialsMarkdown writes officials as a Markdown table under a title.
func WriteOfficialsMarkdown(w io.Writer, title string, officials []models.Official) error {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("| # | Name | Term start | Term end | Party | Birth year | Birth place |\n")
	sb.WriteString("|---|------|------------|----------|-------|------------|-------------|\n")

	for _, o := range officials {
		name := escapeCell(o.Name)
		if o.WikiURL != "" {
			name = fmt.Sprintf("[%s](%s)", name, o.WikiURL)
		}
		year := ""
		if o.BirthYear != 0 {
			year = fmt.Sprintf("%d", o.BirthYear)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			o.RowOrder, name,
			escapeCell(o.TermStart), escapeCell(o.TermEnd), escapeCell(o.Party),
			year, escapeCell(o.BirthPlace)))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// SaveOfficialsMarkdown writes officials to a Markdown file at path.
func SaveOfficialsMarkdown(path, title string, officials []models.Official) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteOfficialsMarkdown(file, title, officials)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}
