package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStabilityDetector_GrowingAnswer(t *testing.T) {
	d := NewStabilityDetector(DefaultConfig())

	reads := []struct {
		text      string
		elapsed   time.Duration
		wantCount int
		wantDone  bool
	}{
		{"hello", 4 * time.Second, 1, false},
		{"hello world", 5 * time.Second, 1, false},
		{"hello world", 6 * time.Second, 2, true},
		{"hello world", 7 * time.Second, 3, true},
	}

	for i, r := range reads {
		got, done := d.Observe(Message{ID: "id1", Role: RoleAssistant, Text: r.text}, r.elapsed)
		assert.Equal(t, r.wantCount, got.StableCount, "read %d", i+1)
		assert.Equal(t, r.wantDone, done, "read %d", i+1)
	}
	assert.Equal(t, 5*time.Second, d.Current().FirstSeen)
}

func TestStabilityDetector_MinimumElapsed(t *testing.T) {
	d := NewStabilityDetector(DefaultConfig())

	_, done := d.Observe(Message{ID: "a", Text: "final"}, 800*time.Millisecond)
	assert.False(t, done)
	got, done := d.Observe(Message{ID: "a", Text: "final"}, 1600*time.Millisecond)
	assert.Equal(t, 2, got.StableCount)
	assert.False(t, done, "must not finish before the dwell even when reads repeat")
	_, done = d.Observe(Message{ID: "a", Text: "final"}, 3*time.Second)
	assert.True(t, done)
}

func TestStabilityDetector_IDChangeResets(t *testing.T) {
	d := NewStabilityDetector(DefaultConfig())

	d.Observe(Message{ID: "a", Text: "same"}, 5*time.Second)
	got, done := d.Observe(Message{ID: "b", Text: "same"}, 6*time.Second)
	assert.Equal(t, 1, got.StableCount)
	assert.Equal(t, "b", got.ID)
	assert.False(t, done)
}

func TestStabilityDetector_RequiredReadsFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StableReads = 0
	cfg.StableDwell = 0
	d := NewStabilityDetector(cfg)

	_, done := d.Observe(Message{ID: "a", Text: "x"}, 0)
	assert.True(t, done)
}
