package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinQueryTimeout is the floor applied to every round deadline. The
	// correlation fallback alone needs the 20s grace period.
	MinQueryTimeout = 30 * time.Second

	// FollowUpReminder is appended to every successful answer
	FollowUpReminder = "\n\nEXTREMELY IMPORTANT: Is that ALL you need to know? " +
		"Before replying to the user, compare this answer with the original request. " +
		"If details are missing, ask another comprehensive follow-up question and include full context."

	// FollowUpMarker identifies the reminder inside a returned answer
	FollowUpMarker = "EXTREMELY IMPORTANT: Is that ALL you need to know?"
)

// Config holds everything a round needs: surface addresses, probe lists and timing.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	SignInURL      string `yaml:"sign_in_url"`
	OverviewURL    string `yaml:"overview_url"`
	BoardURLPrefix string `yaml:"board_url_prefix"`

	// Probe lists, tried in order, first success wins
	InputSelectors      []string `yaml:"input_selectors"`
	SendButtonSelectors []string `yaml:"send_button_selectors"`
	BusySelectors       []string `yaml:"busy_selectors"`

	// Conversation nodes, read in document order
	MessageSelectors     []string `yaml:"message_selectors"`
	AssistantClassMarker string   `yaml:"assistant_class_marker"`
	MessageIDAttributes  []string `yaml:"message_id_attributes"`

	BrowserArgs []string `yaml:"browser_args"`
	UserAgent   string   `yaml:"user_agent"`
	BrowserBin  string   `yaml:"browser_bin"`

	QueryTimeout     time.Duration `yaml:"query_timeout"`
	LoginTimeout     time.Duration `yaml:"login_timeout"`
	PageLoadTimeout  time.Duration `yaml:"page_load_timeout"`
	InputWaitTimeout time.Duration `yaml:"input_wait_timeout"`
	SendDelay        time.Duration `yaml:"send_delay"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	BusyPollInterval time.Duration `yaml:"busy_poll_interval"`
	CorrelationGrace time.Duration `yaml:"correlation_grace"`
	StableDwell      time.Duration `yaml:"stable_dwell"`
	StableReads      int           `yaml:"stable_reads"`
}

// DefaultConfig returns the settings for youmind.com
func DefaultConfig() Config {
	base := "https://youmind.com"
	return Config{
		BaseURL:        base,
		SignInURL:      base + "/sign-in",
		OverviewURL:    base + "/overview",
		BoardURLPrefix: base + "/boards/",
		InputSelectors: []string{
			"textarea[placeholder*='Ask']",
			"textarea[placeholder*='question']",
			"textarea[aria-label*='Ask']",
			"textarea[aria-label*='question']",
			"div[contenteditable='true'][role='textbox']",
			"div[contenteditable='true']",
		},
		SendButtonSelectors: []string{
			"button[aria-label*='Send']",
			"button[data-testid*='send']",
			"button[class*='send']",
		},
		BusySelectors: []string{
			"div.thinking-message",
			"[data-testid*='thinking']",
		},
		MessageSelectors: []string{
			"div.ym-ask-user-content[data-user-message='true'][data-message-id]",
			"div.ym-ask-user-content[data-message-id]",
			"div.ym-askai-container[data-pick-selection-message-id]",
			"div.ym-askai-container[data-message-id]",
		},
		AssistantClassMarker: "ym-askai-container",
		MessageIDAttributes:  []string{"data-pick-selection-message-id", "data-message-id"},
		BrowserArgs: []string{
			"disable-blink-features=AutomationControlled",
			"disable-dev-shm-usage",
			"no-sandbox",
			"no-first-run",
			"no-default-browser-check",
		},
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		QueryTimeout:     420 * time.Second,
		LoginTimeout:     10 * time.Minute,
		PageLoadTimeout:  30 * time.Second,
		InputWaitTimeout: 5 * time.Second,
		SendDelay:        600 * time.Millisecond,
		PollInterval:     800 * time.Millisecond,
		BusyPollInterval: 800 * time.Millisecond,
		CorrelationGrace: 20 * time.Second,
		StableDwell:      3 * time.Second,
		StableReads:      2,
	}
}

// LoadConfig reads a YAML override file on top of DefaultConfig.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, &StorageError{Path: path, Op: "read", Err: err}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ParseError{Source: "config", Key: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, &ParseError{Source: "config", Key: path, Err: err}
	}
	return cfg, nil
}

// Validate rejects settings that would make a round impossible
func (c Config) Validate() error {
	var problems []string
	if c.BaseURL == "" {
		problems = append(problems, "base_url is empty")
	}
	if len(c.InputSelectors) == 0 {
		problems = append(problems, "input_selectors is empty")
	}
	if len(c.MessageSelectors) == 0 {
		problems = append(problems, "message_selectors is empty")
	}
	if len(c.MessageIDAttributes) == 0 {
		problems = append(problems, "message_id_attributes is empty")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "poll_interval must be positive")
	}
	if c.StableReads < 1 {
		problems = append(problems, "stable_reads must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// EffectiveTimeout applies the MinQueryTimeout floor to a requested timeout.
// Zero or negative requests fall back to QueryTimeout.
func (c Config) EffectiveTimeout(requested time.Duration) time.Duration {
	if requested <= 0 {
		requested = c.QueryTimeout
	}
	if requested < MinQueryTimeout {
		return MinQueryTimeout
	}
	return requested
}

// BusyInterval returns the sleep between polls for the given busy state
func (c Config) BusyInterval(busy bool) time.Duration {
	if busy && c.BusyPollInterval > 0 {
		return c.BusyPollInterval
	}
	return c.PollInterval
}
