package internal

import (
	"strings"
	"time"
)

// Board is one catalog entry: a chat-enabled board and what it is about
type Board struct {
	ID           string     `json:"id" yaml:"id"`
	URL          string     `json:"url" yaml:"url"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description" yaml:"description"`
	Topics       []string   `json:"topics" yaml:"topics"`
	ContentTypes []string   `json:"content_types" yaml:"content_types"`
	UseCases     []string   `json:"use_cases" yaml:"use_cases"`
	Tags         []string   `json:"tags" yaml:"tags"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" yaml:"updated_at"`
	UseCount     int        `json:"use_count" yaml:"use_count"`
	LastUsed     *time.Time `json:"last_used" yaml:"last_used"`
}

// BoardInput holds the fields of a new board
type BoardInput struct {
	URL          string
	Name         string
	Description  string
	Topics       []string
	ContentTypes []string
	UseCases     []string
	Tags         []string
}

// BoardUpdate holds optional field changes; nil fields are left unchanged
type BoardUpdate struct {
	URL          *string
	Name         *string
	Description  *string
	Topics       []string
	ContentTypes []string
	UseCases     []string
	Tags         []string
}

// CatalogStats summarizes the catalog
type CatalogStats struct {
	TotalBoards   int    `json:"total_boards" yaml:"total_boards"`
	TotalTopics   int    `json:"total_topics" yaml:"total_topics"`
	TotalUseCount int    `json:"total_use_count" yaml:"total_use_count"`
	ActiveBoard   *Board `json:"active_board" yaml:"active_board"`
	MostUsedBoard *Board `json:"most_used_board" yaml:"most_used_board"`
	LibraryPath   string `json:"library_path" yaml:"library_path"`
}

// Matches reports whether query occurs in the board's searchable fields
func (b *Board) Matches(query string) bool {
	q := strings.ToLower(query)
	fields := []string{
		b.Name,
		b.Description,
		strings.Join(b.Topics, " "),
		strings.Join(b.Tags, " "),
		strings.Join(b.UseCases, " "),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SplitList splits a comma-separated CLI value, dropping empty items
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
