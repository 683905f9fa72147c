package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirEnv overrides the default data directory
const DataDirEnv = "YOUMIND_SESSION_HOME"

// DataPaths holds every local file the tool reads or writes
type DataPaths struct {
	Root           string // data directory
	BrowserProfile string // persistent browser profile
	StateFile      string // saved cookies (JSON)
	AuthInfoFile   string // when and how authentication was saved (YAML)
	CatalogDB      string // board catalog (SQLite)
	ConfigFile     string // optional config overrides (YAML)
}

// ResolveDataPaths picks the data directory: explicit path, then the
// YOUMIND_SESSION_HOME environment variable, then ~/.youmind-session
func ResolveDataPaths(customRoot string) (DataPaths, error) {
	root := customRoot
	if root == "" {
		root = os.Getenv(DataDirEnv)
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, ".youmind-session")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to resolve data directory %s: %w", root, err)
	}
	return NewDataPaths(abs), nil
}

// NewDataPaths lays out the data files under root
func NewDataPaths(root string) DataPaths {
	stateDir := filepath.Join(root, "browser_state")
	return DataPaths{
		Root:           root,
		BrowserProfile: filepath.Join(stateDir, "browser_profile"),
		StateFile:      filepath.Join(stateDir, "state.json"),
		AuthInfoFile:   filepath.Join(root, "auth_info.yaml"),
		CatalogDB:      filepath.Join(root, "catalog.db"),
		ConfigFile:     filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirs creates the data directory and the browser state directory
func (p DataPaths) EnsureDirs() error {
	for _, dir := range []string{p.Root, filepath.Dir(p.StateFile)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &StorageError{Path: dir, Op: "mkdir", Err: err}
		}
	}
	return nil
}

// CatalogExists checks if the catalog database has been created
func (p DataPaths) CatalogExists() bool {
	_, err := os.Stat(p.CatalogDB)
	return err == nil
}
