package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONLExporter exports the catalog in JSONL format (one board per line)
type JSONLExporter struct{}

// Export exports a library to JSONL format. The active board carries
// "active": true.
func (e *JSONLExporter) Export(lib *Library, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, b := range lib.Boards {
		obj := map[string]interface{}{
			"id":          b.ID,
			"url":         b.URL,
			"name":        b.Name,
			"description": b.Description,
			"topics":      b.Topics,
			"use_count":   b.UseCount,
		}
		if len(b.Tags) > 0 {
			obj["tags"] = b.Tags
		}
		if b.LastUsed != nil {
			obj["last_used"] = b.LastUsed
		}
		if b.ID == lib.ActiveBoardID {
			obj["active"] = true
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode board %s: %w", b.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
