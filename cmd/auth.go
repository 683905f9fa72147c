package cmd

import (
	"fmt"

	"github.com/iksnae/youmind-session/internal"
	"github.com/spf13/cobra"
)

// authCmd groups the login state commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the saved Youmind login",
}

var authSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Sign in through a visible browser and save the login",
	Long: `Open a browser on the Youmind sign-in page and wait until you have
signed in. The cookies are saved and loaded into every later round.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		internal.PrintInfo("A browser window will open. Sign in to Youmind there.")
		state, err := env.launcher().Login(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}
		if len(state.Cookies) == 0 {
			return fmt.Errorf("sign-in finished but the browser holds no cookies")
		}

		store := internal.NewAuthStore(env.paths)
		if err := store.SaveState(state, env.cfg.SignInURL); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Saved %d cookie(s) to %s", len(state.Cookies), env.paths.StateFile))
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a login is saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		store := internal.NewAuthStore(env.paths)
		out := cmd.OutOrStdout()
		if !store.IsAuthenticated() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Not authenticated"))
			fmt.Fprintln(out, hintStyle.Render("Run `youmind-session auth setup` to sign in."))
			return nil
		}

		fmt.Fprintln(out, successStyle.Render("✅ Authenticated"))
		if info, err := store.LoadInfo(); err == nil {
			fmt.Fprintf(out, "   Saved:   %s\n", info.AuthenticatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "   Cookies: %d\n", info.CookieCount)
		} else {
			internal.LogDebug("No auth info: %v", err)
		}
		fmt.Fprintf(out, "   State:   %s\n", env.paths.StateFile)
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved login and browser profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		if err := internal.NewAuthStore(env.paths).Clear(); err != nil {
			return err
		}
		internal.PrintSuccess("Cleared saved login")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetupCmd, authStatusCmd, authClearCmd)
}
