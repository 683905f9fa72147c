package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/youmind-session/internal"
	"github.com/spf13/cobra"
)

var (
	boardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	boardMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Padding(0, 2)
)

// boardShowCmd prints one board in full
var boardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every field of a board",
	Long:  `Show one board. Without --id the active board is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(catalog *internal.Catalog) error {
			activeID, err := catalog.ActiveBoardID()
			if err != nil {
				return err
			}
			id := boardID
			if id == "" {
				id = activeID
			}
			if id == "" {
				return errors.New("no active board, pass --id")
			}

			board, err := catalog.GetBoard(id)
			if err != nil {
				return err
			}
			displayBoard(cmd.OutOrStdout(), board, board.ID == activeID)
			return nil
		})
	},
}

func displayBoard(out io.Writer, board *internal.Board, active bool) {
	if board == nil {
		return
	}
	title := fmt.Sprintf("📚 %s", board.Name)
	if active {
		title += " (active)"
	}
	fmt.Fprintln(out, boardHeaderStyle.Render(title))

	metaParts := []string{"ID: " + board.ID, fmt.Sprintf("Uses: %d", board.UseCount)}
	if !board.CreatedAt.IsZero() {
		metaParts = append(metaParts, "Added: "+board.CreatedAt.Local().Format("2006-01-02"))
	}
	if board.LastUsed != nil {
		metaParts = append(metaParts, "Last used: "+board.LastUsed.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, boardMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("URL:"), board.URL)
	for _, field := range []struct {
		label string
		items []string
	}{
		{"Topics:", board.Topics},
		{"Content types:", board.ContentTypes},
		{"Use cases:", board.UseCases},
		{"Tags:", board.Tags},
	} {
		if len(field.items) > 0 {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render(field.label), strings.Join(field.items, ", "))
		}
	}

	if description := strings.TrimSpace(board.Description); description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, descriptionStyle.Render(wrapText(description, 80)))
	}
}

// wrapText wraps lines longer than width runes at word boundaries
func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if utf8.RuneCountInString(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if utf8.RuneCountInString(currentLine)+utf8.RuneCountInString(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
				}
				currentLine = word
			} else if currentLine == "" {
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	boardCmd.AddCommand(boardShowCmd)
	boardShowCmd.Flags().StringVar(&boardID, "id", "", "Board id (default: the active board)")
}
