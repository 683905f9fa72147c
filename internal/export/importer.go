package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/youmind-session/internal"
)

// timestampLayouts covers RFC 3339 and the zone-less timestamps older catalogs wrote
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// boardRecord is one board as found in an import file
type boardRecord struct {
	ID           string   `json:"id" yaml:"id"`
	URL          string   `json:"url" yaml:"url"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Topics       []string `json:"topics" yaml:"topics"`
	ContentTypes []string `json:"content_types" yaml:"content_types"`
	UseCases     []string `json:"use_cases" yaml:"use_cases"`
	Tags         []string `json:"tags" yaml:"tags"`
	CreatedAt    string   `json:"created_at" yaml:"created_at"`
	UpdatedAt    string   `json:"updated_at" yaml:"updated_at"`
	UseCount     int      `json:"use_count" yaml:"use_count"`
	LastUsed     string   `json:"last_used" yaml:"last_used"`
}

// boardSet decodes either a list of boards or an id-keyed map of boards,
// keeping file order
type boardSet []boardRecord

func (s *boardSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var list []boardRecord
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected board key %v", tok)
		}
		var rec boardRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("board %s: %w", key, err)
		}
		if rec.ID == "" {
			rec.ID = key
		}
		*s = append(*s, rec)
	}
	return nil
}

func (s *boardSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []boardRecord
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			var rec boardRecord
			if err := node.Content[i+1].Decode(&rec); err != nil {
				return fmt.Errorf("board %s: %w", key, err)
			}
			if rec.ID == "" {
				rec.ID = key
			}
			*s = append(*s, rec)
		}
	default:
		return fmt.Errorf("boards must be a list or a map, got %s", node.Tag)
	}
	return nil
}

// libraryFile accepts the current export shape and the legacy notebook keys
type libraryFile struct {
	Boards           boardSet `json:"boards" yaml:"boards"`
	Notebooks        boardSet `json:"notebooks" yaml:"notebooks"`
	ActiveBoardID    string   `json:"active_board_id" yaml:"active_board_id"`
	ActiveNotebookID string   `json:"active_notebook_id" yaml:"active_notebook_id"`
}

func (f *libraryFile) library() *Library {
	records := f.Boards
	if len(records) == 0 {
		records = f.Notebooks
	}
	active := f.ActiveBoardID
	if active == "" {
		active = f.ActiveNotebookID
	}
	return &Library{Boards: toBoards(records), ActiveBoardID: active}
}

// FormatFromPath picks json or yaml from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("cannot infer import format from %q, pass --format json|yaml", path)
	}
}

// ParseLibrary decodes an import file. A bare list of boards is accepted too.
func ParseLibrary(data []byte, format string) (*Library, error) {
	var (
		lib *Library
		err error
	)
	switch format {
	case "json":
		lib, err = parseJSON(data)
	case "yaml", "yml":
		lib, err = parseYAML(data)
	default:
		return nil, &internal.ParseError{Source: "import", Key: format, Err: errors.New("unsupported import format")}
	}
	if err != nil {
		return nil, &internal.ParseError{Source: "import", Key: format, Err: err}
	}

	for i, b := range lib.Boards {
		if b.URL == "" {
			return nil, &internal.ParseError{Source: "import", Key: fmt.Sprintf("board %d (%s)", i+1, b.ID), Err: errors.New("missing url")}
		}
	}
	return lib, nil
}

func parseJSON(data []byte) (*Library, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var set boardSet
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return nil, err
		}
		return &Library{Boards: toBoards(set)}, nil
	}

	var f libraryFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f.library(), nil
}

func parseYAML(data []byte) (*Library, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return &Library{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var set boardSet
		if err := root.Decode(&set); err != nil {
			return nil, err
		}
		return &Library{Boards: toBoards(set)}, nil
	}

	var f libraryFile
	if err := root.Decode(&f); err != nil {
		return nil, err
	}
	return f.library(), nil
}

func toBoards(records []boardRecord) []*internal.Board {
	boards := make([]*internal.Board, 0, len(records))
	for _, r := range records {
		b := &internal.Board{
			ID:           r.ID,
			URL:          strings.TrimSpace(r.URL),
			Name:         r.Name,
			Description:  r.Description,
			Topics:       r.Topics,
			ContentTypes: r.ContentTypes,
			UseCases:     r.UseCases,
			Tags:         r.Tags,
			CreatedAt:    parseTimestamp(r.CreatedAt),
			UpdatedAt:    parseTimestamp(r.UpdatedAt),
			UseCount:     r.UseCount,
		}
		if last := parseTimestamp(r.LastUsed); !last.IsZero() {
			b.LastUsed = &last
		}
		boards = append(boards, b)
	}
	return boards
}

// parseTimestamp returns the zero time for empty or unreadable values
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	internal.LogDebug("Ignoring unreadable timestamp %q", value)
	return time.Time{}
}
