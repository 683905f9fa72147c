package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/iksnae/youmind-session/internal"
)

// roleAttributes are read as an explicit role hint when the surface sets them
var roleAttributes = []string{"data-role", "data-message-author"}

// Session is one browser process with one incognito page, owned by a single round
type Session struct {
	cfg       internal.Config
	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	closeOnce sync.Once
	closeErr  error
}

// Navigate opens url and waits for the page load event
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.cfg.PageLoadTimeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		internal.LogDebug("Page load did not settle: %v", err)
	}
	return nil
}

// Location returns the URL the page ended up on
func (s *Session) Location(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// ReadMessages lists every conversation node in document order. A node that
// cannot be read is reported with Err set instead of failing the whole read.
func (s *Session) ReadMessages(ctx context.Context) ([]internal.RawMessage, error) {
	els, err := s.page.Context(ctx).Elements(strings.Join(s.cfg.MessageSelectors, ", "))
	if err != nil {
		return nil, err
	}

	nodes := make([]internal.RawMessage, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, s.readNode(el))
	}
	return nodes, nil
}

func (s *Session) readNode(el *rod.Element) internal.RawMessage {
	text, err := el.Text()
	if err != nil {
		return internal.RawMessage{Err: err}
	}

	node := internal.RawMessage{
		Class: attribute(el, "class"),
		Attrs: make(map[string]string, len(s.cfg.MessageIDAttributes)),
		Text:  text,
	}
	for _, name := range s.cfg.MessageIDAttributes {
		if value := attribute(el, name); value != "" {
			node.Attrs[name] = value
		}
	}
	for _, name := range roleAttributes {
		if value := attribute(el, name); value != "" {
			node.RoleHint = value
			break
		}
	}
	return node
}

// Busy reports whether any busy indicator is visible
func (s *Session) Busy(ctx context.Context) bool {
	checks := make([]internal.Check, 0, len(s.cfg.BusySelectors))
	for _, selector := range s.cfg.BusySelectors {
		selector := selector
		checks = append(checks, internal.Check{
			Name: selector,
			Test: func(ctx context.Context) (bool, error) {
				return s.anyVisible(ctx, selector)
			},
		})
	}
	return internal.AnyTrue(ctx, checks)
}

// LocateInput returns the first input selector that becomes visible
func (s *Session) LocateInput(ctx context.Context) (string, error) {
	probes := make([]internal.Probe, 0, len(s.cfg.InputSelectors))
	for _, selector := range s.cfg.InputSelectors {
		selector := selector
		probes = append(probes, internal.Probe{
			Name: selector,
			Try: func(ctx context.Context) error {
				return s.waitVisible(ctx, selector, s.cfg.InputWaitTimeout)
			},
		})
	}
	return internal.FirstSuccess(ctx, probes)
}

// Submit types question into the input and presses Enter. After the send
// delay the send button is clicked once as a fallback trigger.
func (s *Session) Submit(ctx context.Context, inputSelector, question string) error {
	page := s.page.Context(ctx).Timeout(s.cfg.InputWaitTimeout)
	defer page.CancelTimeout()

	el, err := page.Element(inputSelector)
	if err != nil {
		return fmt.Errorf("input %s: %w", inputSelector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus input: %w", err)
	}
	if err := el.Input(question); err != nil {
		return fmt.Errorf("type question: %w", err)
	}
	if err := s.page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}

	if err := (internal.SystemClock{}).Sleep(ctx, s.cfg.SendDelay); err != nil {
		return err
	}

	probes := make([]internal.Probe, 0, len(s.cfg.SendButtonSelectors))
	for _, selector := range s.cfg.SendButtonSelectors {
		selector := selector
		probes = append(probes, internal.Probe{
			Name: selector,
			Try: func(ctx context.Context) error {
				return s.clickVisible(ctx, selector)
			},
		})
	}
	if name, err := internal.FirstSuccess(ctx, probes); err != nil {
		internal.LogDebug("Send button fallback not used: %v", err)
	} else {
		internal.LogDebug("Clicked send button %s", name)
	}
	return nil
}

// Close releases the page, the browser and its process. It is safe to call twice.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close page: %w", err))
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Session) anyVisible(ctx context.Context, selector string) (bool, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return false, err
	}
	for _, el := range els {
		if visible, err := el.Visible(); err == nil && visible {
			return true, nil
		}
	}
	return false, nil
}

func (s *Session) waitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (s *Session) clickVisible(ctx context.Context, selector string) error {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return err
	}
	for _, el := range els {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	return fmt.Errorf("no visible element for %s", selector)
}

func attribute(el *rod.Element, name string) string {
	value, err := el.Attribute(name)
	if err != nil || value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
