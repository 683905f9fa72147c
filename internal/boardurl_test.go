package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBoardURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://youmind.com/boards/abc", "https://youmind.com/boards/abc"},
		{"trims space", "  https://youmind.com/boards/abc  ", "https://youmind.com/boards/abc"},
		{"drops material id", "https://youmind.com/boards/abc?material-id=m1", "https://youmind.com/boards/abc"},
		{"drops craft id keeps others", "https://youmind.com/boards/abc?tab=chat&craft-id=c1&lang=en", "https://youmind.com/boards/abc?tab=chat&lang=en"},
		{"drops fragment", "https://youmind.com/boards/abc#section", "https://youmind.com/boards/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBoardURL(tt.in))
		})
	}
}

func TestResolveEffectiveBoardURL(t *testing.T) {
	const pinned = "https://youmind.com/boards/abc?material-id=m1"

	tests := []struct {
		name     string
		url      string
		question string
		want     string
	}{
		{"board question drops context", pinned, "summarize the board", "https://youmind.com/boards/abc"},
		{"article question keeps context", pinned, "Summarize this article", pinned},
		{"chinese material question keeps context", pinned, "总结当前素材", pinned},
		{"no context id untouched", "https://youmind.com/boards/abc?tab=1", "anything", "https://youmind.com/boards/abc?tab=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEffectiveBoardURL(tt.url, tt.question))
		})
	}
}

func TestHasContextID(t *testing.T) {
	assert.True(t, HasContextID("https://youmind.com/boards/abc?craft-id=1"))
	assert.True(t, HasContextID("https://youmind.com/boards/abc?Material-Id=1"))
	assert.False(t, HasContextID("https://youmind.com/boards/abc?material=1"))
	assert.False(t, HasContextID("https://youmind.com/boards/abc"))
}

func TestIsSignInLocation(t *testing.T) {
	const base = "https://youmind.com"
	tests := []struct {
		location string
		want     bool
	}{
		{"https://youmind.com/boards/abc", false},
		{"https://www.youmind.com/boards/abc", false},
		{"https://youmind.com/sign-in?redirect=/boards/abc", true},
		{"https://accounts.google.com/signin", true},
		{"about:blank", true},
		{"https://app.youmind.com/boards/abc", false},
		{"https://evilyoumind.com/boards/abc", true},
		{"https://youmind.com.evil.io/boards/abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSignInLocation(tt.location, base))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AI Papers", "ai-papers"},
		{"  Go -- Notes!  ", "go-notes"},
		{"研究", "board"},
		{"", "board"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
