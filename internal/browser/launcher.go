package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/iksnae/youmind-session/internal"
)

const loginPollInterval = time.Second

// Launcher starts Chrome for rounds and for interactive login.
// Every round gets its own browser process and incognito context.
type Launcher struct {
	cfg   internal.Config
	paths internal.DataPaths
}

// NewLauncher creates a Launcher
func NewLauncher(cfg internal.Config, paths internal.DataPaths) *Launcher {
	return &Launcher{cfg: cfg, paths: paths}
}

// NewSession launches a fresh browser, loads the saved cookies into an
// incognito context and opens a blank page in it.
func (l *Launcher) NewSession(ctx context.Context, opts internal.SessionOptions) (internal.Session, error) {
	chrome := l.newChrome(opts.Headless)
	controlURL, err := chrome.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	s := &Session{cfg: l.cfg, launcher: chrome}
	if err := s.open(ctx, controlURL, opts.State); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) open(ctx context.Context, controlURL string, state *internal.BrowserState) error {
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	s.browser = b

	incognito, err := b.Incognito()
	if err != nil {
		return fmt.Errorf("incognito context: %w", err)
	}
	if state != nil && len(state.Cookies) > 0 {
		if err := incognito.SetCookies(ToCookieParams(state.Cookies)); err != nil {
			return fmt.Errorf("load saved cookies: %w", err)
		}
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if s.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.cfg.UserAgent}); err != nil {
			internal.LogWarn("Failed to set user agent: %v", err)
		}
	}
	return nil
}

// Login opens a visible browser on the sign-in page with the persistent
// profile and waits until the user is back on the site. It returns the
// cookies of the signed-in browser.
func (l *Launcher) Login(ctx context.Context, clock internal.Clock) (*internal.BrowserState, error) {
	if clock == nil {
		clock = internal.SystemClock{}
	}
	if err := l.paths.EnsureDirs(); err != nil {
		return nil, err
	}

	chrome := l.newChrome(false).UserDataDir(l.paths.BrowserProfile)
	controlURL, err := chrome.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer chrome.Kill()

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = b.Close() }()

	page, err := b.Page(proto.TargetCreateTarget{URL: l.cfg.SignInURL})
	if err != nil {
		return nil, fmt.Errorf("open sign-in page: %w", err)
	}

	internal.LogInfo("Waiting for sign-in to complete (up to %s)", l.cfg.LoginTimeout)
	deadline := clock.Now().Add(l.cfg.LoginTimeout)
	for clock.Now().Before(deadline) {
		info, err := page.Info()
		if err == nil && LoginCompleted(info.URL, l.cfg) {
			cookies, err := b.GetCookies()
			if err != nil {
				return nil, fmt.Errorf("read cookies: %w", err)
			}
			internal.LogInfo("Signed in, landed on %s", info.URL)
			return &internal.BrowserState{Cookies: FromCookies(cookies), SavedAt: clock.Now()}, nil
		}
		if err := clock.Sleep(ctx, loginPollInterval); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("sign-in not completed within %s", l.cfg.LoginTimeout)
}

// LoginCompleted reports whether location is a signed-in page of the site
func LoginCompleted(location string, cfg internal.Config) bool {
	if location == "" || strings.HasPrefix(location, cfg.SignInURL) {
		return false
	}
	if !strings.HasPrefix(location, "http") {
		return false
	}
	return !internal.IsSignInLocation(location, cfg.BaseURL)
}

// FindBrowser returns the Chrome binary rounds will use
func (l *Launcher) FindBrowser() (string, error) {
	if l.cfg.BrowserBin != "" {
		if _, err := os.Stat(l.cfg.BrowserBin); err != nil {
			return "", fmt.Errorf("configured browser_bin: %w", err)
		}
		return l.cfg.BrowserBin, nil
	}
	if path, found := launcher.LookPath(); found {
		return path, nil
	}
	return "", errors.New("no Chrome or Chromium found on this system")
}

func (l *Launcher) newChrome(headless bool) *launcher.Launcher {
	chrome := launcher.New().Headless(headless)
	if l.cfg.BrowserBin != "" {
		chrome = chrome.Bin(l.cfg.BrowserBin)
	}
	for _, raw := range l.cfg.BrowserArgs {
		name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if hasVal {
			chrome = chrome.Set(flags.Flag(name), val)
		} else {
			chrome = chrome.Set(flags.Flag(name))
		}
	}
	return chrome
}
