package internal

import "time"

// StabilityDetector decides when a candidate answer has stopped streaming.
// A candidate is done once the same (id, text) pair was read requiredReads
// times in a row and at least minElapsed has passed since submission.
type StabilityDetector struct {
	requiredReads int
	minElapsed    time.Duration
	current       CandidateAnswer
}

// NewStabilityDetector creates a detector from the stability settings of cfg
func NewStabilityDetector(cfg Config) *StabilityDetector {
	reads := cfg.StableReads
	if reads < 1 {
		reads = 1
	}
	return &StabilityDetector{
		requiredReads: reads,
		minElapsed:    cfg.StableDwell,
	}
}

// Observe records one poll of the candidate and reports whether it is done
func (d *StabilityDetector) Observe(candidate Message, elapsed time.Duration) (CandidateAnswer, bool) {
	if d.current.StableCount > 0 && candidate.ID == d.current.ID && candidate.Text == d.current.Text {
		d.current.StableCount++
	} else {
		d.current = CandidateAnswer{
			ID:          candidate.ID,
			Text:        candidate.Text,
			StableCount: 1,
			FirstSeen:   elapsed,
		}
	}
	done := d.current.StableCount >= d.requiredReads && elapsed >= d.minElapsed
	return d.current, done
}

// Current returns the last observed candidate
func (d *StabilityDetector) Current() CandidateAnswer {
	return d.current
}
