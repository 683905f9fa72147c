package cmd

import (
	"bytes"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(rootCmd)
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"ask", "auth", "board", "export", "healthcheck", "import"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()
	resetFlags(rootCmd)
	dataDir = dir
	defer func() { dataDir = "" }()

	env, err := loadEnvironment()
	if err != nil {
		t.Fatalf("loadEnvironment() error = %v", err)
	}
	if env.paths.Root != dir {
		t.Errorf("data dir = %s, want %s", env.paths.Root, dir)
	}
	if env.cfg.BaseURL == "" {
		t.Error("default config should be loaded when no config file exists")
	}
}
