package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tr-officials/atlas/pkg/models"
)

// WriteOfficialsJSON writes officials as an indented JSON array.
func WriteOfficialsJSON(w io.Writer, officials []models.Official) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(officials)
}

// SaveOfficialsJSON writes officials to a JSON file at path.
func SaveOfficialsJSON(path string, officials []models.Official) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteOfficialsJSON(file, officials)
}
