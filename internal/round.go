package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is one exclusively owned UI session (an isolated browser context).
// It is acquired at round start and closed on every exit path.
type Session interface {
	ConversationDriver
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	// LocateInput returns the first input descriptor that became visible
	LocateInput(ctx context.Context) (string, error)
	// Submit types question into input and dispatches it
	Submit(ctx context.Context, input, question string) error
	Close() error
}

// SessionOptions configures a fresh session
type SessionOptions struct {
	Headless bool
	State    *BrowserState
}

// SessionFactory opens fresh sessions
type SessionFactory interface {
	NewSession(ctx context.Context, opts SessionOptions) (Session, error)
}

// StateLoader provides the saved login state
type StateLoader interface {
	IsAuthenticated() bool
	LoadState() (*BrowserState, error)
}

// RoundRequest is one question for one board
type RoundRequest struct {
	Question string
	BoardURL string
	Headless bool
	Timeout  time.Duration
}

// RoundResult is the success value of a round
type RoundResult struct {
	RoundID  string
	BoardURL string // the URL actually opened
	Answer   string // answer text with the follow-up reminder appended
	Detail   *Answer
}

// Asker runs question-answer rounds
type Asker struct {
	cfg      Config
	sessions SessionFactory
	auth     StateLoader
	clock    Clock
}

// NewAsker creates an Asker. A nil clock uses the system clock.
func NewAsker(cfg Config, sessions SessionFactory, auth StateLoader, clock Clock) *Asker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Asker{cfg: cfg, sessions: sessions, auth: auth, clock: clock}
}

// Ask runs one round: open a fresh session, snapshot, submit, poll, release.
// Failures are *RoundError values; no step is retried.
func (a *Asker) Ask(ctx context.Context, req RoundRequest) (*RoundResult, error) {
	roundID := uuid.NewString()[:8]
	log := NewRoundLogger(roundID)

	if !a.auth.IsAuthenticated() {
		return nil, &RoundError{Reason: ReasonNotAuthenticated, Err: errors.New("no saved login state, run `auth setup`")}
	}
	state, err := a.auth.LoadState()
	if err != nil {
		return nil, &RoundError{Reason: ReasonNotAuthenticated, Err: err}
	}

	boardURL := ResolveEffectiveBoardURL(req.BoardURL, req.Question)
	log.Info("Asking: %s", req.Question)
	log.Info("Board: %s", boardURL)
	if a.cfg.BoardURLPrefix != "" && !strings.HasPrefix(boardURL, a.cfg.BoardURLPrefix) {
		log.Warn("Board URL does not start with %s", a.cfg.BoardURLPrefix)
	}
	if boardURL != req.BoardURL {
		log.Info("Ignoring material/craft context id for board-level query")
	}

	session, err := a.sessions.NewSession(ctx, SessionOptions{Headless: req.Headless, State: state})
	if err != nil {
		log.Error("Failed to open browser session: %v", err)
		return nil, &RoundError{Reason: ReasonTransportError, Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Failed to close browser session: %v", err)
		}
	}()

	answer, err := a.run(ctx, session, req, boardURL, log)
	if err != nil {
		var re *RoundError
		if !errors.As(err, &re) {
			log.Error("Round failed: %v", err)
			err = &RoundError{Reason: ReasonTransportError, Err: err}
		}
		return nil, err
	}

	return &RoundResult{
		RoundID:  roundID,
		BoardURL: boardURL,
		Answer:   answer.Text + FollowUpReminder,
		Detail:   answer,
	}, nil
}

func (a *Asker) run(ctx context.Context, session Session, req RoundRequest, boardURL string, log RoundLogger) (*Answer, error) {
	log.Debug("Opening board")
	if err := session.Navigate(ctx, boardURL); err != nil {
		return nil, fmt.Errorf("navigate to board: %w", err)
	}

	location, err := session.Location(ctx)
	if err != nil {
		return nil, fmt.Errorf("read location: %w", err)
	}
	if IsSignInLocation(location, a.cfg.BaseURL) {
		log.Error("Redirected to sign-in (%s), authentication may be expired", location)
		return nil, &RoundError{Reason: ReasonRedirectedToSignIn, Err: fmt.Errorf("landed on %s", location)}
	}

	input, err := session.LocateInput(ctx)
	if err != nil {
		log.Error("Could not find chat input")
		return nil, &RoundError{Reason: ReasonInputNotFound, Err: err}
	}
	log.Debug("Found chat input: %s", input)

	engine := NewEngine(a.cfg, session, a.clock, log)
	question := NewQuestion(req.Question)
	snapshot := engine.Snapshot(ctx)

	log.Info("Submitting question")
	if err := session.Submit(ctx, input, req.Question); err != nil {
		return nil, fmt.Errorf("submit question: %w", err)
	}
	submittedAt := a.clock.Now()

	log.Info("Waiting for answer")
	answer, err := engine.Await(ctx, snapshot, question, submittedAt, req.Timeout)
	if errors.Is(err, ErrTimeout) {
		log.Error("Timeout waiting for answer (%s)", a.cfg.EffectiveTimeout(req.Timeout))
		return nil, &RoundError{Reason: ReasonTimeout, Err: err}
	}
	if err != nil {
		return nil, err
	}

	log.Info("Got answer (%d chars, %s)", len(answer.Text), answer.Elapsed.Round(time.Millisecond))
	return answer, nil
}
