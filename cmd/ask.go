package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/youmind-session/internal"
	"github.com/spf13/cobra"
)

var (
	askQuestion       string
	askBoardURL       string
	askBoardID        string
	askShowBrowser    bool
	askTimeoutSeconds int
)

var hintStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("243")).
	Italic(true)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a board a question",
	Long: `Ask a question to a Youmind board and print the answer.

The board is taken from --board-url, then --board-id, then the active board
in the catalog. Every question opens a fresh browser; nothing is retried.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(askQuestion) == "" {
			return errors.New("--question is required")
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

		target, err := internal.ResolveBoard(catalog, askBoardURL, askBoardID)
		if err != nil {
			if errors.Is(err, internal.ErrNoBoards) {
				return noBoardError(catalog, err)
			}
			return err
		}
		if target.Board != nil {
			internal.LogInfo("Using board: %s (%s)", target.Board.Name, target.Board.ID)
		}

		req := internal.RoundRequest{
			Question: askQuestion,
			BoardURL: target.URL,
			Headless: !askShowBrowser,
			Timeout:  time.Duration(askTimeoutSeconds) * time.Second,
		}

		var result *internal.RoundResult
		err = internal.ShowProgress(cmd.Context(), "Waiting for the board to answer", func() error {
			var askErr error
			result, askErr = env.asker().Ask(cmd.Context(), req)
			return askErr
		})
		if err != nil {
			if hint := failureHint(internal.ReasonOf(err)); hint != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render(hint))
			}
			return err
		}

		target.RecordUse(catalog)
		fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
		return nil
	},
}

// failureHint suggests what to do about a failed round
func failureHint(reason internal.FailureReason) string {
	switch reason {
	case internal.ReasonNotAuthenticated:
		return "Run `youmind-session auth setup` to sign in first."
	case internal.ReasonRedirectedToSignIn:
		return "The saved login looks expired. Run `youmind-session auth setup` again."
	case internal.ReasonInputNotFound:
		return "No chat input on that page. Check that the URL is a board with chat enabled."
	case internal.ReasonTimeout:
		return "No stable answer in time. Try a larger --timeout-seconds."
	case internal.ReasonTransportError:
		return "The browser session failed. Run `youmind-session healthcheck`."
	default:
		return ""
	}
}

// noBoardError explains how to pick a board, listing the catalog if it has any
func noBoardError(catalog *internal.Catalog, err error) error {
	boards, listErr := catalog.ListBoards()
	if listErr != nil || len(boards) == 0 {
		return err
	}
	ids := make([]string, 0, len(boards))
	for _, b := range boards {
		ids = append(ids, b.ID)
	}
	return fmt.Errorf("no active board, pass --board-id (available: %s)", strings.Join(ids, ", "))
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "Question to ask")
	askCmd.Flags().StringVar(&askBoardURL, "board-url", "", "Board URL to ask (overrides the catalog)")
	askCmd.Flags().StringVar(&askBoardID, "board-id", "", "Catalog board id to ask")
	askCmd.Flags().BoolVar(&askShowBrowser, "show-browser", false, "Show the browser window")
	askCmd.Flags().IntVar(&askTimeoutSeconds, "timeout-seconds", 0, "Answer timeout in seconds (default from config, minimum 30)")
}
