package internal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testBoardURL = "https://youmind.com/boards/board-1"

func newTestAsker(factory *FakeSessionFactory, loader StateLoader) *Asker {
	return NewAsker(DefaultConfig(), factory, loader, NewFakeClock(testStart))
}

func authenticated() FakeStateLoader {
	return FakeStateLoader{Authenticated: true}
}

func TestAsker_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := NewFakeSession(growingAnswerFrames()...)
	factory := &FakeSessionFactory{Sessions: []*FakeSession{session}}
	asker := newTestAsker(factory, authenticated())

	result, err := asker.Ask(context.Background(), RoundRequest{
		Question: "what is new",
		BoardURL: testBoardURL + "?material-id=m-1",
		Headless: true,
		Timeout:  time.Minute,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world"+FollowUpReminder, result.Answer)
	assert.Equal(t, testBoardURL, result.BoardURL, "board-level questions drop the material id")
	assert.Len(t, result.RoundID, 8)
	assert.Equal(t, "4", result.Detail.ID)

	assert.Equal(t, []string{testBoardURL}, session.Navigated())
	assert.Equal(t, []string{"what is new"}, session.Submitted())
	assert.Equal(t, 1, session.Closed())

	opened := factory.Opened()
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Headless)
	assert.NotNil(t, opened[0].State)
}

func TestAsker_KeepsContextIDForMaterialQuestions(t *testing.T) {
	session := NewFakeSession(growingAnswerFrames()...)
	factory := &FakeSessionFactory{Sessions: []*FakeSession{session}}
	asker := newTestAsker(factory, authenticated())

	url := testBoardURL + "?material-id=m-1"
	session.Script = func(read int) []RawMessage {
		frames := growingAnswerFrames()
		if read >= len(frames) {
			read = len(frames) - 1
		}
		out := frames[read]
		for i := range out {
			if out[i].Text == "what is new" {
				out[i].Text = "summarize this article"
			}
		}
		return out
	}

	result, err := asker.Ask(context.Background(), RoundRequest{Question: "summarize this article", BoardURL: url})
	require.NoError(t, err)
	assert.Equal(t, url, result.BoardURL)
	assert.Equal(t, []string{url}, session.Navigated())
}

func TestAsker_Failures(t *testing.T) {
	tests := []struct {
		name        string
		loader      FakeStateLoader
		factoryErr  error
		prepare     func(s *FakeSession)
		wantReason  FailureReason
		wantOpened  bool
		wantTimeout bool
	}{
		{
			name:       "no saved login",
			loader:     FakeStateLoader{Authenticated: false},
			wantReason: ReasonNotAuthenticated,
		},
		{
			name:       "unreadable login state",
			loader:     FakeStateLoader{Authenticated: true, Err: errors.New("corrupt state")},
			wantReason: ReasonNotAuthenticated,
		},
		{
			name:       "browser does not start",
			loader:     authenticated(),
			factoryErr: errors.New("chrome not found"),
			wantReason: ReasonTransportError,
		},
		{
			name:       "redirected to sign-in",
			loader:     authenticated(),
			prepare:    func(s *FakeSession) { s.Landing = "https://youmind.com/sign-in?next=/boards/board-1" },
			wantReason: ReasonRedirectedToSignIn,
			wantOpened: true,
		},
		{
			name:       "redirected off site",
			loader:     authenticated(),
			prepare:    func(s *FakeSession) { s.Landing = "https://accounts.google.com/o/oauth2" },
			wantReason: ReasonRedirectedToSignIn,
			wantOpened: true,
		},
		{
			name:       "navigation fails",
			loader:     authenticated(),
			prepare:    func(s *FakeSession) { s.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED") },
			wantReason: ReasonTransportError,
			wantOpened: true,
		},
		{
			name:       "input not found",
			loader:     authenticated(),
			prepare:    func(s *FakeSession) { s.InputErr = ErrNoProbeSucceeded },
			wantReason: ReasonInputNotFound,
			wantOpened: true,
		},
		{
			name:       "submit fails",
			loader:     authenticated(),
			prepare:    func(s *FakeSession) { s.SubmitErr = errors.New("element detached") },
			wantReason: ReasonTransportError,
			wantOpened: true,
		},
		{
			name:        "no answer",
			loader:      authenticated(),
			prepare:     func(s *FakeSession) { s.Frames = [][]RawMessage{{UserNode("1", "old")}} },
			wantReason:  ReasonTimeout,
			wantOpened:  true,
			wantTimeout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewFakeSession(growingAnswerFrames()...)
			if tt.prepare != nil {
				tt.prepare(session)
			}
			factory := &FakeSessionFactory{Sessions: []*FakeSession{session}, Err: tt.factoryErr}
			asker := newTestAsker(factory, tt.loader)

			result, err := asker.Ask(context.Background(), RoundRequest{
				Question: "what is new",
				BoardURL: testBoardURL,
				Timeout:  30 * time.Second,
			})

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantReason, ReasonOf(err))
			assert.Equal(t, tt.wantTimeout, errors.Is(err, ErrTimeout))

			if tt.wantOpened {
				assert.Equal(t, 1, session.Closed(), "the session must be released on every exit path")
			} else {
				assert.Equal(t, 0, session.Closed())
			}
			if tt.wantReason == ReasonNotAuthenticated {
				assert.Empty(t, factory.Opened(), "no browser is opened without a login")
			}
		})
	}
}

func TestAsker_CancelledContextIsTransportError(t *testing.T) {
	session := NewFakeSession([]RawMessage{UserNode("1", "old")})
	factory := &FakeSessionFactory{Sessions: []*FakeSession{session}}
	asker := newTestAsker(factory, authenticated())

	ctx, cancel := context.WithCancel(context.Background())
	session.OnSubmit = func(string) { cancel() }

	_, err := asker.Ask(ctx, RoundRequest{Question: "q", BoardURL: testBoardURL})
	require.Error(t, err)
	assert.Equal(t, ReasonTransportError, ReasonOf(err))
	assert.True(t, strings.Contains(err.Error(), "polling interrupted"))
	assert.Equal(t, 1, session.Closed())
}
