package internal

import (
	"strings"
	"time"
)

// Role identifies who authored a rendered turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RawMessage is one conversation node as reported by the UI driver.
// Drivers fill whatever they could read; Err marks a node that failed to read.
type RawMessage struct {
	RoleHint string            // explicit role, if the surface exposes one
	Class    string            // class attribute of the node
	Attrs    map[string]string // identity attributes that were present
	Text     string
	Err      error
}

// Message is one rendered turn after normalization
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Question is the submitted text plus what is derived from it once
type Question struct {
	Text                    string
	Normalized              string
	ExpectsStructuredOutput bool
}

// NewQuestion normalizes text and derives the comparison flags
func NewQuestion(text string) Question {
	normalized := NormalizeText(text)
	return Question{
		Text:                    text,
		Normalized:              normalized,
		ExpectsStructuredOutput: QuestionRequestsJSON(normalized),
	}
}

// ConversationSnapshot is the conversation as it looked right before submission
type ConversationSnapshot struct {
	Messages          []Message
	UserIDs           map[string]struct{}
	AssistantTexts    map[string]struct{}
	BaselineMaxUserID string // "" when the conversation had no user turns
	CapturedAt        time.Time
}

// HasAssistantText reports whether text was already on screen at baseline
func (s ConversationSnapshot) HasAssistantText(text string) bool {
	_, ok := s.AssistantTexts[text]
	return ok
}

// CorrelationTarget is the user turn believed to carry our question
type CorrelationTarget struct {
	UserID    string
	Confirmed bool // true when found by text matching, false for the positional fallback
}

// IsSet reports whether a target user turn has been chosen
func (t CorrelationTarget) IsSet() bool {
	return t.UserID != ""
}

// CandidateAnswer is the current best assistant turn for the target
type CandidateAnswer struct {
	ID          string
	Text        string
	StableCount int
	FirstSeen   time.Duration // elapsed since submission when first observed
}

// CompareIDs orders message ids. The empty id sorts first, then all-digit
// ids in numeric order, then every other id lexicographically. Keeping the
// two id shapes in separate bands keeps the order transitive when a
// conversation mixes them.
func CompareIDs(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	aDigits, bDigits := isDigits(a), isDigits(b)
	switch {
	case aDigits && !bDigits:
		return -1
	case !aDigits && bDigits:
		return 1
	case aDigits && bDigits:
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
