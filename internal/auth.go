package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StoredCookie is a browser cookie in a driver-neutral form
type StoredCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"` // unix seconds, 0 for session cookies
	HTTPOnly bool    `json:"http_only,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"same_site,omitempty"`
}

// BrowserState is the saved login state loaded into every round
type BrowserState struct {
	Cookies []StoredCookie `json:"cookies"`
	SavedAt time.Time      `json:"saved_at"`
}

// AuthInfo describes the saved login state
type AuthInfo struct {
	AuthenticatedAt time.Time `yaml:"authenticated_at"`
	CookieCount     int       `yaml:"cookie_count"`
	StateFile       string    `yaml:"state_file"`
	SignInURL       string    `yaml:"sign_in_url,omitempty"`
}

// AuthStore persists the login state between rounds
type AuthStore struct {
	paths DataPaths
}

// NewAuthStore creates an AuthStore over the given data paths
func NewAuthStore(paths DataPaths) *AuthStore {
	return &AuthStore{paths: paths}
}

// IsAuthenticated reports whether a non-empty cookie state has been saved
func (a *AuthStore) IsAuthenticated() bool {
	state, err := a.LoadState()
	if err != nil {
		return false
	}
	return len(state.Cookies) > 0
}

// LoadState reads the saved cookies
func (a *AuthStore) LoadState() (*BrowserState, error) {
	data, err := os.ReadFile(a.paths.StateFile)
	if err != nil {
		return nil, &StorageError{Path: a.paths.StateFile, Op: "read", Err: err}
	}

	var state BrowserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &ParseError{Source: "state", Key: a.paths.StateFile, Err: err}
	}
	return &state, nil
}

// SaveState writes the cookies and refreshes the auth info file
func (a *AuthStore) SaveState(state *BrowserState, signInURL string) error {
	if err := a.paths.EnsureDirs(); err != nil {
		return err
	}
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal browser state: %w", err)
	}
	if err := os.WriteFile(a.paths.StateFile, data, 0600); err != nil {
		return &StorageError{Path: a.paths.StateFile, Op: "write", Err: err}
	}

	info := AuthInfo{
		AuthenticatedAt: state.SavedAt,
		CookieCount:     len(state.Cookies),
		StateFile:       a.paths.StateFile,
		SignInURL:       signInURL,
	}
	infoData, err := yaml.Marshal(&info)
	if err != nil {
		return fmt.Errorf("failed to marshal auth info: %w", err)
	}
	if err := os.WriteFile(a.paths.AuthInfoFile, infoData, 0600); err != nil {
		return &StorageError{Path: a.paths.AuthInfoFile, Op: "write", Err: err}
	}
	return nil
}

// LoadInfo reads the auth info file
func (a *AuthStore) LoadInfo() (*AuthInfo, error) {
	data, err := os.ReadFile(a.paths.AuthInfoFile)
	if err != nil {
		return nil, &StorageError{Path: a.paths.AuthInfoFile, Op: "read", Err: err}
	}

	var info AuthInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, &ParseError{Source: "auth", Key: a.paths.AuthInfoFile, Err: err}
	}
	return &info, nil
}

// Clear removes the saved state, the auth info and the browser profile
func (a *AuthStore) Clear() error {
	for _, path := range []string{a.paths.StateFile, a.paths.AuthInfoFile} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &StorageError{Path: path, Op: "remove", Err: err}
		}
	}
	if err := os.RemoveAll(a.paths.BrowserProfile); err != nil {
		return &StorageError{Path: a.paths.BrowserProfile, Op: "remove", Err: err}
	}
	return nil
}
