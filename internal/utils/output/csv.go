package output

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/tr-officials/atlas/pkg/models"
)

// utf8BOM makes the file open correctly in Excel with Turkish characters.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fixedColumns come first in every export, in this order. Scraped columns
// the typed fields did not absorb follow, sorted by header.
var fixedColumns = []string{
	"position", "row", "name", "wiki_url",
	"term_start", "term_end", "party",
	"birth_date", "birth_year", "birth_place",
}

// WriteOfficialsCSV writes officials as BOM-prefixed CSV.
func WriteOfficialsCSV(w io.Writer, officials []models.Official) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	extras := extraColumns(officials)
	writer := csv.NewWriter(w)

	header := append(append([]string{}, fixedColumns...), extras...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, o := range officials {
		year := ""
		if o.BirthYear != 0 {
			year = strconv.Itoa(o.BirthYear)
		}
		row := []string{
			o.PositionSlug, strconv.Itoa(o.RowOrder), o.Name, o.WikiURL,
			o.TermStart, o.TermEnd, o.Party,
			o.BirthDate, year, o.BirthPlace,
		}
		for _, k := range extras {
			row = append(row, o.Attrs[k])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveOfficialsCSV writes officials to a CSV file at path.
func SaveOfficialsCSV(path string, officials []models.Official) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteOfficialsCSV(file, officials)
}

// extraColumns returns the union of attr keys across officials, sorted.
func extraColumns(officials []models.Official) []string {
	seen := make(map[string]bool)
	for _, o := range officials {
		for k := range o.Attrs {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
