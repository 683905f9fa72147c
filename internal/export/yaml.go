package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports the catalog in YAML format
type YAMLExporter struct{}

// Export exports a library to YAML format
func (e *YAMLExporter) Export(lib *Library, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(lib)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
