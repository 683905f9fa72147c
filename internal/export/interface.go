package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/youmind-session/internal"
)

// Library is the exported catalog: every board plus the active selection
type Library struct {
	Boards        []*internal.Board `json:"boards" yaml:"boards"`
	ActiveBoardID string            `json:"active_board_id,omitempty" yaml:"active_board_id,omitempty"`
	ExportedAt    time.Time         `json:"exported_at" yaml:"exported_at"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(lib *Library, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// BuildLibrary reads the whole catalog into a Library
func BuildLibrary(catalog *internal.Catalog, now time.Time) (*Library, error) {
	boards, err := catalog.ListBoards()
	if err != nil {
		return nil, err
	}
	active, err := catalog.ActiveBoardID()
	if err != nil {
		return nil, err
	}
	return &Library{Boards: boards, ActiveBoardID: active, ExportedAt: now.UTC()}, nil
}
