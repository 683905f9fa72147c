package internal

import (
	"context"
	"errors"
	"sync"
	"time"
)

// UserNode creates a raw user turn the way the driver reports it
func UserNode(id, text string) RawMessage {
	return RawMessage{
		Class: "ym-ask-user-content",
		Attrs: map[string]string{"data-message-id": id},
		Text:  text,
	}
}

// AssistantNode creates a raw assistant turn the way the driver reports it
func AssistantNode(id, text string) RawMessage {
	return RawMessage{
		Class: "ym-askai-container",
		Attrs: map[string]string{"data-pick-selection-message-id": id},
		Text:  text,
	}
}

// FakeClock is a manual clock. Sleep advances it instantly.
type FakeClock struct {
	mu        sync.Mutex
	now       time.Time
	sleeps    []time.Duration
	deadlines []fakeDeadline
}

type fakeDeadline struct {
	at     time.Time
	cancel context.CancelFunc
}

// NewFakeClock creates a FakeClock starting at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d unless ctx is already done
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return nil
}

// Advance moves the clock forward
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	pending := c.deadlines[:0]
	for _, dl := range c.deadlines {
		if c.now.Before(dl.at) {
			pending = append(pending, dl)
			continue
		}
		dl.cancel()
	}
	c.deadlines = pending
}

// WithDeadline returns a context cancelled once Advance or Sleep reaches t
func (c *FakeClock) WithDeadline(ctx context.Context, t time.Time) (context.Context, context.CancelFunc) {
	child, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.now.Before(t) {
		cancel()
		return child, cancel
	}
	c.deadlines = append(c.deadlines, fakeDeadline{at: t, cancel: cancel})
	return child, cancel
}

// Sleeps returns every duration passed to Sleep
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// FakeDriver replays scripted conversation frames. Each read returns the next
// frame; the last frame repeats forever. Script, when set, wins over Frames.
type FakeDriver struct {
	mu      sync.Mutex
	Frames  [][]RawMessage
	Script  func(read int) []RawMessage
	ReadErr error
	BusyFn  func(read int) bool
	// Block, when set, makes every read after the first hang until ctx is
	// done. Each hung read sends on the channel first.
	Block   chan struct{}
	reads   int
	busyHit int
}

// ReadMessages returns the frame for the current read
func (d *FakeDriver) ReadMessages(ctx context.Context) ([]RawMessage, error) {
	d.mu.Lock()
	read := d.reads
	d.reads++
	if d.Block != nil && read > 0 {
		d.mu.Unlock()
		select {
		case d.Block <- struct{}{}:
		case <-ctx.Done():
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	defer d.mu.Unlock()
	if d.ReadErr != nil {
		return nil, d.ReadErr
	}
	if d.Script != nil {
		return d.Script(read), nil
	}
	if len(d.Frames) == 0 {
		return nil, nil
	}
	if read >= len(d.Frames) {
		read = len(d.Frames) - 1
	}
	return append([]RawMessage(nil), d.Frames[read]...), nil
}

// Busy reports the scripted busy state
func (d *FakeDriver) Busy(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busyHit++
	if d.BusyFn == nil {
		return false
	}
	return d.BusyFn(d.reads)
}

// Reads returns how many times ReadMessages was called
func (d *FakeDriver) Reads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

// BusyChecks returns how many times Busy was called
func (d *FakeDriver) BusyChecks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busyHit
}

// FakeSession is a scripted Session backed by a FakeDriver
type FakeSession struct {
	*FakeDriver

	Landing     string // location after Navigate, the navigated URL if empty
	NavigateErr error
	InputErr    error
	SubmitErr   error
	OnSubmit    func(question string)

	mu        sync.Mutex
	navigated []string
	submitted []string
	closed    int
	location  string
}

// NewFakeSession creates a FakeSession with the given frames
func NewFakeSession(frames ...[]RawMessage) *FakeSession {
	return &FakeSession{FakeDriver: &FakeDriver{Frames: frames}}
}

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigated = append(s.navigated, url)
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.location = url
	if s.Landing != "" {
		s.location = s.Landing
	}
	return nil
}

func (s *FakeSession) Location(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location, nil
}

func (s *FakeSession) LocateInput(ctx context.Context) (string, error) {
	if s.InputErr != nil {
		return "", s.InputErr
	}
	return "textarea[placeholder*='Ask']", nil
}

func (s *FakeSession) Submit(ctx context.Context, input, question string) error {
	if s.SubmitErr != nil {
		return s.SubmitErr
	}
	s.mu.Lock()
	s.submitted = append(s.submitted, question)
	s.mu.Unlock()
	if s.OnSubmit != nil {
		s.OnSubmit(question)
	}
	return nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Navigated returns every URL passed to Navigate
func (s *FakeSession) Navigated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigated...)
}

// Submitted returns every submitted question
func (s *FakeSession) Submitted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.submitted...)
}

// Closed returns how many times Close was called
func (s *FakeSession) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeSessionFactory hands out prepared sessions in order
type FakeSessionFactory struct {
	mu       sync.Mutex
	Sessions []*FakeSession
	Err      error
	opened   []SessionOptions
}

func (f *FakeSessionFactory) NewSession(ctx context.Context, opts SessionOptions) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, opts)
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Sessions) == 0 {
		return nil, errors.New("no fake session prepared")
	}
	s := f.Sessions[0]
	f.Sessions = f.Sessions[1:]
	return s, nil
}

// Opened returns the options of every requested session
func (f *FakeSessionFactory) Opened() []SessionOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SessionOptions(nil), f.opened...)
}

// FakeStateLoader is a StateLoader with a fixed answer
type FakeStateLoader struct {
	Authenticated bool
	State         *BrowserState
	Err           error
}

func (l FakeStateLoader) IsAuthenticated() bool {
	return l.Authenticated
}

func (l FakeStateLoader) LoadState() (*BrowserState, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	if l.State == nil {
		return &BrowserState{}, nil
	}
	return l.State, nil
}

// FakeAsker answers rounds from a list of canned answers
type FakeAsker struct {
	mu       sync.Mutex
	Answers  []string
	Errs     []error
	Requests []RoundRequest
}

func (a *FakeAsker) Ask(ctx context.Context, req RoundRequest) (*RoundResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := len(a.Requests)
	a.Requests = append(a.Requests, req)
	if i < len(a.Errs) && a.Errs[i] != nil {
		return nil, a.Errs[i]
	}
	if i >= len(a.Answers) {
		return nil, &RoundError{Reason: ReasonTimeout, Err: ErrTimeout}
	}
	return &RoundResult{BoardURL: req.BoardURL, Answer: a.Answers[i] + FollowUpReminder}, nil
}
