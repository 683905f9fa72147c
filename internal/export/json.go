package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports the catalog in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a library to JSON format
func (e *JSONExporter) Export(lib *Library, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(lib)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
