package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/youmind-session/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that youmind-session can run a round",
	Long: `Check the health of youmind-session by verifying:
  • Data directory and config
  • Chrome or Chromium availability
  • Board catalog access
  • Saved login state

Use --verbose for paths and details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Youmind Session Health Check"))
		fmt.Fprintln(out)

		var failures []string

		// Step 1: data directory and config
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading data directory and config..."))
		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load environment:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Config loaded"))
		if verbose {
			fmt.Fprintf(out, "   Data directory: %s\n", env.paths.Root)
			fmt.Fprintf(out, "   Base URL: %s\n", env.cfg.BaseURL)
			fmt.Fprintf(out, "   Query timeout: %s\n", env.cfg.QueryTimeout)
		}
		fmt.Fprintln(out)

		// Step 2: browser
		fmt.Fprintln(out, infoStyle.Render("Step 2: Looking for Chrome..."))
		bin, err := env.launcher().FindBrowser()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ No browser found:"), err)
			failures = append(failures, "browser")
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Browser found"))
			if verbose {
				fmt.Fprintf(out, "   Binary: %s\n", bin)
			}
		}
		fmt.Fprintln(out)

		// Step 3: catalog
		fmt.Fprintln(out, infoStyle.Render("Step 3: Opening board catalog..."))
		if err := checkCatalog(cmd, env); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Catalog not usable:"), err)
			failures = append(failures, "catalog")
		}
		fmt.Fprintln(out)

		// Step 4: login
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking saved login..."))
		store := internal.NewAuthStore(env.paths)
		authenticated := store.IsAuthenticated()
		if authenticated {
			fmt.Fprintln(out, successStyle.Render("✅ Login state saved"))
			if info, err := store.LoadInfo(); err == nil && verbose {
				fmt.Fprintf(out, "   Saved: %s (%d cookies)\n", info.AuthenticatedAt.Local().Format("2006-01-02 15:04"), info.CookieCount)
			}
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No saved login, run `youmind-session auth setup`"))
			if verbose {
				if _, err := os.Stat(env.paths.StateFile); err != nil {
					fmt.Fprintf(out, "   Expected: %s\n", env.paths.StateFile)
				}
			}
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if len(failures) > 0 {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			for _, f := range failures {
				fmt.Fprintf(out, "   • %s\n", f)
			}
			return fmt.Errorf("health check failed: %v", failures)
		}
		if !authenticated {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Ready once you sign in"))
			return nil
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func checkCatalog(cmd *cobra.Command, env *environment) error {
	out := cmd.OutOrStdout()
	catalog, err := env.openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	stats, err := catalog.Stats()
	if err != nil {
		return err
	}
	if stats.TotalBoards == 0 {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Catalog is empty, add a board with `board add` or `board smart-add`"))
	} else {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d board(s)", stats.TotalBoards)))
	}
	if verbose {
		fmt.Fprintf(out, "   Database: %s\n", stats.LibraryPath)
		if stats.ActiveBoard != nil {
			fmt.Fprintf(out, "   Active: %s\n", stats.ActiveBoard.ID)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
