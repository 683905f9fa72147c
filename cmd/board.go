package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/youmind-session/internal"
	"github.com/spf13/cobra"
)

var (
	boardID          string
	boardURL         string
	boardName        string
	boardDescription string
	boardTopics      string
	boardUseCases    string
	boardTags        string
	boardQuery       string

	smartShowBrowser       bool
	smartPrompt            string
	smartJSONPrompt        string
	smartSinglePass        bool
	smartNoActivate        bool
	smartAllowDuplicateURL bool
	smartJSON              bool
	smartTimeoutSeconds    int
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	topicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// boardCmd groups the catalog commands
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage the local board catalog",
	Long: `Manage the local catalog of Youmind boards.

The active board is used by 'ask' when no board is given.`,
}

var boardAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a board with explicit metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		var missing []string
		for _, f := range []struct{ flag, value string }{
			{"url", boardURL}, {"name", boardName}, {"description", boardDescription}, {"topics", boardTopics},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, "--"+f.flag)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("required: %s", strings.Join(missing, ", "))
		}

		return withCatalog(func(catalog *internal.Catalog) error {
			board, err := catalog.AddBoard(internal.BoardInput{
				URL:         boardURL,
				Name:        boardName,
				Description: boardDescription,
				Topics:      internal.SplitList(boardTopics),
				UseCases:    internal.SplitList(boardUseCases),
				Tags:        internal.SplitList(boardTags),
			})
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Added board %s (%s)", board.Name, board.ID))
			return nil
		})
	},
}

var boardSmartAddCmd = &cobra.Command{
	Use:   "smart-add",
	Short: "Add a board by asking it to describe itself",
	Long: `Add a board by asking its chat for a summary and then for JSON
metadata (name, description, topics). With --single-pass only the JSON
question is asked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(boardURL) == "" {
			return errors.New("--url is required")
		}

		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		catalog, err := env.openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		opts := internal.SmartAddOptions{
			URL:               boardURL,
			Headless:          !smartShowBrowser,
			Activate:          !smartNoActivate,
			Prompt:            smartPrompt,
			JSONPrompt:        smartJSONPrompt,
			SinglePass:        smartSinglePass,
			AllowDuplicateURL: smartAllowDuplicateURL,
			Timeout:           time.Duration(smartTimeoutSeconds) * time.Second,
		}

		var result *internal.SmartAddResult
		err = internal.ShowProgress(cmd.Context(), "Discovering board metadata", func() error {
			var addErr error
			result, addErr = internal.SmartAdd(cmd.Context(), catalog, env.asker(), opts)
			return addErr
		})
		if err != nil {
			if hint := failureHint(internal.ReasonOf(err)); hint != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render(hint))
			}
			return err
		}

		if smartJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		if result.Status == "exists" {
			internal.PrintInfo(fmt.Sprintf("Board already in catalog: %s (%s)", result.Board.Name, result.Board.ID))
			return nil
		}
		internal.PrintSuccess(fmt.Sprintf("Added board %s (%s) via %s", result.Board.Name, result.Board.ID, result.DiscoveryUsed))
		displayBoard(cmd.OutOrStdout(), result.Board, !smartNoActivate)
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(catalog *internal.Catalog) error {
			boards, err := catalog.ListBoards()
			if err != nil {
				return err
			}
			activeID, err := catalog.ActiveBoardID()
			if err != nil {
				return err
			}
			displayBoards(cmd.OutOrStdout(), boards, activeID, "No boards yet. Add one with `youmind-session board add` or `board smart-add`.")
			return nil
		})
	},
}

var boardSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search boards by name, description, topics, tags or use cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(boardQuery) == "" {
			return errors.New("--query is required")
		}
		return withCatalog(func(catalog *internal.Catalog) error {
			boards, err := catalog.SearchBoards(boardQuery)
			if err != nil {
				return err
			}
			activeID, err := catalog.ActiveBoardID()
			if err != nil {
				return err
			}
			displayBoards(cmd.OutOrStdout(), boards, activeID, fmt.Sprintf("No boards match %q.", boardQuery))
			return nil
		})
	},
}

var boardActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Make a board the default for ask",
	RunE: func(cmd *cobra.Command, args []string) error {
		if boardID == "" {
			return errors.New("--id is required")
		}
		return withCatalog(func(catalog *internal.Catalog) error {
			board, err := catalog.ActivateBoard(boardID)
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Active board: %s (%s)", board.Name, board.ID))
			return nil
		})
	},
}

var boardRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a board from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if boardID == "" {
			return errors.New("--id is required")
		}
		return withCatalog(func(catalog *internal.Catalog) error {
			if err := catalog.RemoveBoard(boardID); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Removed board %s", boardID))
			return nil
		})
	},
}

var boardStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(catalog *internal.Catalog) error {
			stats, err := catalog.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("📊 Catalog"))
			fmt.Fprintf(out, "  Boards:      %s\n", countStyle.Render(strconv.Itoa(stats.TotalBoards)))
			fmt.Fprintf(out, "  Topics:      %s\n", countStyle.Render(strconv.Itoa(stats.TotalTopics)))
			fmt.Fprintf(out, "  Total uses:  %s\n", countStyle.Render(strconv.Itoa(stats.TotalUseCount)))
			if stats.ActiveBoard != nil {
				fmt.Fprintf(out, "  Active:      %s %s\n", stats.ActiveBoard.Name, idStyle.Render("("+stats.ActiveBoard.ID+")"))
			}
			if stats.MostUsedBoard != nil && stats.MostUsedBoard.UseCount > 0 {
				fmt.Fprintf(out, "  Most used:   %s %s\n", stats.MostUsedBoard.Name, idStyle.Render(fmt.Sprintf("(%d uses)", stats.MostUsedBoard.UseCount)))
			}
			fmt.Fprintf(out, "  Library:     %s\n", dateStyle.Render(stats.LibraryPath))
			return nil
		})
	},
}

var boardUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change fields of a board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if boardID == "" {
			return errors.New("--id is required")
		}

		var upd internal.BoardUpdate
		changed := 0
		flags := cmd.Flags()
		if flags.Changed("url") {
			upd.URL = &boardURL
			changed++
		}
		if flags.Changed("name") {
			upd.Name = &boardName
			changed++
		}
		if flags.Changed("description") {
			upd.Description = &boardDescription
			changed++
		}
		if flags.Changed("topics") {
			upd.Topics = nonNilList(internal.SplitList(boardTopics))
			changed++
		}
		if flags.Changed("use-cases") {
			upd.UseCases = nonNilList(internal.SplitList(boardUseCases))
			changed++
		}
		if flags.Changed("tags") {
			upd.Tags = nonNilList(internal.SplitList(boardTags))
			changed++
		}
		if changed == 0 {
			return errors.New("nothing to update, pass at least one field flag")
		}

		return withCatalog(func(catalog *internal.Catalog) error {
			board, err := catalog.UpdateBoard(boardID, upd)
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Updated board %s", board.ID))
			return nil
		})
	},
}

// withCatalog opens the catalog of the current data directory for fn
func withCatalog(fn func(*internal.Catalog) error) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	catalog, err := env.openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()
	return fn(catalog)
}

func displayBoards(out io.Writer, boards []*internal.Board, activeID, empty string) {
	if len(boards) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 "+empty))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d board(s)", len(boards))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Topics")+"\t"+titleStyle.Render("Uses")+"\t"+titleStyle.Render("Last used")+"\t")
	for _, b := range boards {
		id := idStyle.Render(b.ID)
		if b.ID == activeID {
			id = countStyle.Render("* " + b.ID)
		}
		lastUsed := dateStyle.Render("—")
		if b.LastUsed != nil {
			lastUsed = dateStyle.Render(formatWhen(*b.LastUsed, time.Now()))
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			id,
			b.Name,
			topicStyle.Render(strings.Join(b.Topics, ", ")),
			countStyle.Render(strconv.Itoa(b.UseCount)),
			lastUsed,
		)
	}
	_ = w.Flush()
}

// formatWhen renders t relative to now the way the board list shows dates
func formatWhen(t, now time.Time) string {
	t = t.Local()
	now = now.Local()
	switch {
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("Today 15:04")
	case now.Sub(t) < 7*24*time.Hour && now.After(t):
		return t.Format("Mon 15:04")
	case t.Year() == now.Year():
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func nonNilList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardAddCmd, boardSmartAddCmd, boardListCmd, boardSearchCmd,
		boardActivateCmd, boardRemoveCmd, boardStatsCmd, boardUpdateCmd)

	for _, c := range []*cobra.Command{boardAddCmd, boardUpdateCmd} {
		c.Flags().StringVar(&boardURL, "url", "", "Board URL")
		c.Flags().StringVar(&boardName, "name", "", "Board name")
		c.Flags().StringVar(&boardDescription, "description", "", "What the board contains")
		c.Flags().StringVar(&boardTopics, "topics", "", "Comma-separated topics")
		c.Flags().StringVar(&boardUseCases, "use-cases", "", "Comma-separated use cases")
		c.Flags().StringVar(&boardTags, "tags", "", "Comma-separated tags")
	}
	for _, c := range []*cobra.Command{boardActivateCmd, boardRemoveCmd, boardUpdateCmd} {
		c.Flags().StringVar(&boardID, "id", "", "Board id")
	}
	boardSearchCmd.Flags().StringVarP(&boardQuery, "query", "q", "", "Text to search for")

	boardSmartAddCmd.Flags().StringVar(&boardURL, "url", "", "Board URL")
	boardSmartAddCmd.Flags().BoolVar(&smartShowBrowser, "show-browser", false, "Show the browser window")
	boardSmartAddCmd.Flags().StringVar(&smartPrompt, "prompt", "", "Custom summary question")
	boardSmartAddCmd.Flags().StringVar(&smartJSONPrompt, "json-prompt", "", "Custom JSON metadata question")
	boardSmartAddCmd.Flags().BoolVar(&smartSinglePass, "single-pass", false, "Ask only the JSON metadata question")
	boardSmartAddCmd.Flags().BoolVar(&smartNoActivate, "no-activate", false, "Do not make the new board active")
	boardSmartAddCmd.Flags().BoolVar(&smartAllowDuplicateURL, "allow-duplicate-url", false, "Add even if the URL is already in the catalog")
	boardSmartAddCmd.Flags().BoolVar(&smartJSON, "json", false, "Print the discovery result as JSON")
	boardSmartAddCmd.Flags().IntVar(&smartTimeoutSeconds, "timeout-seconds", 0, "Per-question timeout in seconds")
}
