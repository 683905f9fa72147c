package internal

import (
	"sort"
	"time"
)

// Correlator decides which user turn carries the submitted question and which
// assistant turn after it is the best answer candidate.
//
// Known accuracy limit: when the fallback path is taken and unrelated user
// turns land after the baseline inside the grace window (another person using
// the same board), the newest of them is chosen. Nothing here can tell them
// apart from ours.
type Correlator struct {
	snapshot ConversationSnapshot
	question Question
	grace    time.Duration
	target   CorrelationTarget
	log      RoundLogger
}

// NewCorrelator creates a Correlator bounded below by the snapshot baseline
func NewCorrelator(snapshot ConversationSnapshot, question Question, grace time.Duration, log RoundLogger) *Correlator {
	return &Correlator{
		snapshot: snapshot,
		question: question,
		grace:    grace,
		log:      log,
	}
}

// Target returns the current correlation target
func (c *Correlator) Target() CorrelationTarget {
	return c.target
}

// Correlate updates the target from the live sequence and returns the best
// candidate answer, if any. elapsed is the time since submission.
func (c *Correlator) Correlate(seq []Message, elapsed time.Duration) (Message, bool) {
	if len(seq) == 0 {
		return Message{}, false
	}
	users, assistants := SplitByRole(seq)

	if !c.target.Confirmed {
		c.matchQuestion(users)
	}
	if !c.target.IsSet() && elapsed >= c.grace {
		c.fallbackToNewest(users)
	}
	if !c.target.IsSet() {
		return Message{}, false
	}
	return c.selectCandidate(assistants, elapsed)
}

// matchQuestion is the primary path: the newest post-baseline user turn whose
// text matches the question.
func (c *Correlator) matchQuestion(users []Message) {
	if c.question.Normalized == "" {
		return
	}
	newest := ""
	for _, msg := range users {
		if IsSameQuestion(msg.Text, c.question.Normalized) && CompareIDs(msg.ID, newest) > 0 {
			newest = msg.ID
		}
	}
	if newest == "" || CompareIDs(newest, c.snapshot.BaselineMaxUserID) <= 0 {
		return
	}
	// correlation only moves forward
	if c.target.IsSet() && CompareIDs(newest, c.target.UserID) < 0 {
		return
	}
	c.target = CorrelationTarget{UserID: newest, Confirmed: true}
	c.log.Debug("Matched question to user turn %s", newest)
}

// fallbackToNewest takes the newest post-baseline user turn regardless of text
func (c *Correlator) fallbackToNewest(users []Message) {
	newest := ""
	for _, msg := range users {
		if CompareIDs(msg.ID, c.snapshot.BaselineMaxUserID) > 0 && CompareIDs(msg.ID, newest) > 0 {
			newest = msg.ID
		}
	}
	if newest == "" {
		return
	}
	c.target = CorrelationTarget{UserID: newest, Confirmed: false}
	c.log.Debug("No text match after %s, falling back to newest user turn %s", c.grace, newest)
}

func (c *Correlator) selectCandidate(assistants []Message, elapsed time.Duration) (Message, bool) {
	after := make([]Message, 0, len(assistants))
	for _, msg := range assistants {
		if CompareIDs(msg.ID, c.target.UserID) > 0 {
			after = append(after, msg)
		}
	}
	sort.SliceStable(after, func(i, j int) bool {
		return CompareIDs(after[i].ID, after[j].ID) < 0
	})

	for _, msg := range after {
		if msg.Text == "" {
			continue
		}
		if LooksLikeMetadataJSON(msg.Text) && !c.question.ExpectsStructuredOutput {
			continue
		}
		if !c.target.Confirmed && elapsed < c.grace && c.snapshot.HasAssistantText(msg.Text) {
			continue
		}
		return msg, true
	}
	return Message{}, false
}
