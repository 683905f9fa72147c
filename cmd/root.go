package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/youmind-session/internal"
	"github.com/iksnae/youmind-session/internal/browser"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "youmind-session",
	Short: "Ask questions to Youmind boards from the command line",
	Long: `A CLI that asks questions to Youmind boards through their chat UI and
returns the board's answer.

Each question runs in a fresh headless browser. The answer is matched to
the question that was submitted and returned once it stops changing.

Features:
  • Ask a board a question and print its answer
  • Keep a local catalog of boards with topics and usage counts
  • Discover board metadata automatically (smart-add)
  • Export and import the catalog (JSON, JSONL, YAML, Markdown)

Quick Start:
  youmind-session auth setup                           # Sign in once
  youmind-session board smart-add --url <board-url>    # Add a board
  youmind-session ask --question "What is in here?"    # Ask the active board`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// environment is the resolved data directory and configuration of one invocation
type environment struct {
	paths internal.DataPaths
	cfg   internal.Config
}

func loadEnvironment() (*environment, error) {
	paths, err := internal.ResolveDataPaths(dataDir)
	if err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		path = paths.ConfigFile
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	internal.LogDebug("Data directory: %s", paths.Root)
	return &environment{paths: paths, cfg: cfg}, nil
}

func (e *environment) openCatalog() (*internal.Catalog, error) {
	catalog, err := internal.OpenCatalog(e.paths.CatalogDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open board catalog: %w", err)
	}
	return catalog, nil
}

func (e *environment) launcher() *browser.Launcher {
	return browser.NewLauncher(e.cfg, e.paths)
}

func (e *environment) asker() *internal.Asker {
	return internal.NewAsker(e.cfg, e.launcher(), internal.NewAuthStore(e.paths), nil)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default $"+internal.DataDirEnv+" or ~/.youmind-session)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config override file (default <data-dir>/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
