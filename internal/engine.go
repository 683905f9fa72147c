package internal

import (
	"context"
	"fmt"
	"time"
)

// PollState is the phase of the answer-polling state machine
type PollState string

const (
	StateWaitingForTarget    PollState = "waiting-for-target"
	StateWaitingForCandidate PollState = "waiting-for-candidate"
	StateStable              PollState = "stable"
	StateTimeout             PollState = "timeout"
)

// ConversationDriver is what the engine needs from the UI driver
type ConversationDriver interface {
	MessageReader
	Busy(ctx context.Context) bool
}

// Answer is the terminal success value of a polling loop
type Answer struct {
	Text      string
	ID        string
	Confirmed bool          // the target was found by text matching
	Elapsed   time.Duration // since submission
	Polls     int
}

// Engine snapshots the conversation before submission and then polls it
// until a stable answer to that submission appears or the deadline passes.
type Engine struct {
	cfg    Config
	driver ConversationDriver
	store  *MessageStore
	clock  Clock
	log    RoundLogger
}

// NewEngine creates an Engine. A nil clock uses the system clock.
func NewEngine(cfg Config, driver ConversationDriver, clock Clock, log RoundLogger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		cfg:    cfg,
		driver: driver,
		store:  NewMessageStore(driver, cfg, log),
		clock:  clock,
		log:    log,
	}
}

// Snapshot captures the baseline. Call it once, right before submitting.
func (e *Engine) Snapshot(ctx context.Context) ConversationSnapshot {
	snapshot := CaptureSnapshot(e.store.ReadSequence(ctx), e.clock.Now())
	e.log.Debug("Baseline: %d message(s), max user id %q", len(snapshot.Messages), snapshot.BaselineMaxUserID)
	return snapshot
}

// Await polls for the answer to question, submitted at submittedAt.
// The deadline is submittedAt + max(30s, timeout). On timeout it returns
// ErrTimeout and never a partial answer.
func (e *Engine) Await(ctx context.Context, snapshot ConversationSnapshot, question Question, submittedAt time.Time, timeout time.Duration) (*Answer, error) {
	timeout = e.cfg.EffectiveTimeout(timeout)
	deadline := submittedAt.Add(timeout)

	// driver calls share the deadline so a stalled page cannot outlive it
	pollCtx, cancel := e.clock.WithDeadline(ctx, deadline)
	defer cancel()

	correlator := NewCorrelator(snapshot, question, e.cfg.CorrelationGrace, e.log)
	stability := NewStabilityDetector(e.cfg)
	state := StateWaitingForTarget
	polls := 0

	for {
		now := e.clock.Now()
		if !now.Before(deadline) {
			break
		}
		elapsed := now.Sub(submittedAt)
		polls++

		seq := e.store.ReadSequence(pollCtx)
		if pollCtx.Err() != nil {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("polling interrupted: %w", err)
			}
			break
		}
		candidate, found := correlator.Correlate(seq, elapsed)
		if correlator.Target().IsSet() {
			e.transition(&state, StateWaitingForCandidate)
		}
		if found {
			current, done := stability.Observe(candidate, elapsed)
			if done {
				e.transition(&state, StateStable)
				target := correlator.Target()
				e.log.Debug("Answer %s stable after %d read(s), %s", current.ID, current.StableCount, elapsed.Round(time.Millisecond))
				return &Answer{
					Text:      current.Text,
					ID:        current.ID,
					Confirmed: target.Confirmed,
					Elapsed:   elapsed,
					Polls:     polls,
				}, nil
			}
			if current.StableCount == 1 {
				e.log.Debug("Candidate %s changed (%d chars)", current.ID, len(current.Text))
			}
		}

		// busy only paces the loop, it never decides completion
		busy := e.driver.Busy(pollCtx)
		wait := e.cfg.BusyInterval(busy)
		if remaining := deadline.Sub(e.clock.Now()); remaining < wait {
			wait = remaining
		}
		if err := e.clock.Sleep(pollCtx, wait); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("polling interrupted: %w", ctx.Err())
			}
			break
		}
	}

	e.transition(&state, StateTimeout)
	return nil, fmt.Errorf("%w after %s (%d polls)", ErrTimeout, timeout, polls)
}

func (e *Engine) transition(state *PollState, next PollState) {
	if *state == next {
		return
	}
	e.log.Debug("Polling state %s -> %s", *state, next)
	*state = next
}
