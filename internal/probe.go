package internal

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoProbeSucceeded is returned when every probe of a list failed
var ErrNoProbeSucceeded = errors.New("no probe succeeded")

// Probe is one independent, individually fallible action against an
// unstable surface, such as "click the element matching this selector".
type Probe struct {
	Name string
	Try  func(ctx context.Context) error
}

// Check is one independent detector that reports a boolean
type Check struct {
	Name string
	Test func(ctx context.Context) (bool, error)
}

// FirstSuccess runs probes in order and returns the name of the first one
// that succeeds. Later probes are not run.
func FirstSuccess(ctx context.Context, probes []Probe) (string, error) {
	var errs []error
	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := p.Try(ctx)
		if err == nil {
			return p.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}
	if len(errs) == 0 {
		return "", ErrNoProbeSucceeded
	}
	return "", fmt.Errorf("%w: %w", ErrNoProbeSucceeded, errors.Join(errs...))
}

// AnyTrue reports whether any check reports true. Failing checks count as false.
func AnyTrue(ctx context.Context, checks []Check) bool {
	for _, c := range checks {
		ok, err := c.Test(ctx)
		if err != nil {
			LogDebug("check %s failed: %v", c.Name, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
