package export

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownExporter exports the catalog as a readable Markdown document
type MarkdownExporter struct{}

// Export exports a library to Markdown format
func (e *MarkdownExporter) Export(lib *Library, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Youmind Boards\n\n")
	_, _ = fmt.Fprintf(w, "**Boards:** %d  \n", len(lib.Boards))
	if lib.ActiveBoardID != "" {
		_, _ = fmt.Fprintf(w, "**Active:** %s  \n", lib.ActiveBoardID)
	}
	if !lib.ExportedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Exported:** %s\n", lib.ExportedAt.Format("2006-01-02 15:04:05 MST"))
	}
	_, _ = fmt.Fprintf(w, "\n")

	for i, b := range lib.Boards {
		title := escapeMarkdown(b.Name)
		if b.ID == lib.ActiveBoardID {
			title += " (active)"
		}
		_, _ = fmt.Fprintf(w, "## %s\n\n", title)
		_, _ = fmt.Fprintf(w, "- **ID:** `%s`\n", b.ID)
		_, _ = fmt.Fprintf(w, "- **URL:** <%s>\n", b.URL)
		if len(b.Topics) > 0 {
			_, _ = fmt.Fprintf(w, "- **Topics:** %s\n", strings.Join(b.Topics, ", "))
		}
		if len(b.Tags) > 0 {
			_, _ = fmt.Fprintf(w, "- **Tags:** %s\n", strings.Join(b.Tags, ", "))
		}
		_, _ = fmt.Fprintf(w, "- **Uses:** %d\n", b.UseCount)
		if b.LastUsed != nil {
			_, _ = fmt.Fprintf(w, "- **Last used:** %s\n", b.LastUsed.Format("2006-01-02 15:04"))
		}
		if b.Description != "" {
			_, _ = fmt.Fprintf(w, "\n%s\n", escapeMarkdown(b.Description))
		}
		_, _ = fmt.Fprintf(w, "\n")

		if i < len(lib.Boards)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers, leaving code blocks alone
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
