//go:build integration

package browser_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/youmind-session/internal"
	"github.com/iksnae/youmind-session/internal/browser"
)

// chatPage streams "The answer is 42." into a new assistant node after every question
const chatPage = `<!doctype html>
<html><body>
<div id="thread">
  <div class="ym-ask-user-content" data-message-id="10">old question</div>
  <div class="ym-askai-container" data-pick-selection-message-id="11">old answer</div>
</div>
<textarea placeholder="Ask anything"></textarea>
<script>
let next = 12;
const input = document.querySelector('textarea');
input.addEventListener('keydown', (e) => {
  if (e.key !== 'Enter' || !input.value) return;
  e.preventDefault();
  const thread = document.getElementById('thread');
  const user = document.createElement('div');
  user.className = 'ym-ask-user-content';
  user.dataset.messageId = String(next++);
  user.textContent = input.value;
  thread.appendChild(user);
  input.value = '';
  const reply = document.createElement('div');
  reply.className = 'ym-askai-container';
  reply.dataset.pickSelectionMessageId = String(next++);
  thread.appendChild(reply);
  const words = ['The ', 'answer ', 'is ', '42.'];
  let i = 0;
  const timer = setInterval(() => {
    reply.textContent += words[i++];
    if (i === words.length) clearInterval(timer);
  }, 300);
});
</script>
</body></html>`

func newChatServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/sign-in", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>sign in</body></html>"))
	})
	mux.HandleFunc("/boards/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sid"); err != nil {
			http.Redirect(w, r, "/sign-in", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(chatPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(base string) internal.Config {
	cfg := internal.DefaultConfig()
	cfg.BaseURL = base
	cfg.SignInURL = base + "/sign-in"
	cfg.BoardURLPrefix = base + "/boards/"
	cfg.SendButtonSelectors = nil
	return cfg
}

func TestAsker_AgainstChatPage(t *testing.T) {
	srv := newChatServer(t)
	cfg := testConfig(srv.URL)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	launcher := browser.NewLauncher(cfg, internal.NewDataPaths(t.TempDir()))
	if _, err := launcher.FindBrowser(); err != nil {
		t.Skipf("no browser available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	t.Run("answer", func(t *testing.T) {
		auth := internal.FakeStateLoader{
			Authenticated: true,
			State: &internal.BrowserState{Cookies: []internal.StoredCookie{
				{Name: "sid", Value: "s3cret", Domain: u.Hostname(), Path: "/"},
			}},
		}
		asker := internal.NewAsker(cfg, launcher, auth, nil)

		res, err := asker.Ask(ctx, internal.RoundRequest{
			Question: "What is the answer?",
			BoardURL: srv.URL + "/boards/test",
			Headless: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "The answer is 42."+internal.FollowUpReminder, res.Answer)
	})

	t.Run("redirected to sign-in", func(t *testing.T) {
		asker := internal.NewAsker(cfg, launcher, internal.FakeStateLoader{Authenticated: true}, nil)

		_, err := asker.Ask(ctx, internal.RoundRequest{
			Question: "What is the answer?",
			BoardURL: srv.URL + "/boards/test",
			Headless: true,
		})
		var re *internal.RoundError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, internal.ReasonRedirectedToSignIn, re.Reason)
	})
}
