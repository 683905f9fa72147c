package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when no stable answer appeared before the deadline
	ErrTimeout = errors.New("timed out waiting for a stable answer")
	// ErrBoardNotFound is returned for unknown board ids
	ErrBoardNotFound = errors.New("board not found")
	// ErrNoBoards is returned when a board is needed but the catalog is empty
	ErrNoBoards = errors.New("no boards in catalog")
)

// FailureReason classifies why a round ended without an answer
type FailureReason string

const (
	ReasonNotAuthenticated   FailureReason = "not-authenticated"
	ReasonInputNotFound      FailureReason = "input-not-found"
	ReasonTimeout            FailureReason = "timeout"
	ReasonRedirectedToSignIn FailureReason = "redirected-to-sign-in"
	ReasonTransportError     FailureReason = "transport-error"
)

// RoundError is the failure outcome of one question-answer round
type RoundError struct {
	Reason FailureReason
	Err    error
}

func (e *RoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("round failed: %s", e.Reason)
	}
	return fmt.Sprintf("round failed: %s: %v", e.Reason, e.Err)
}

func (e *RoundError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the failure reason from err, or "" if err is not a RoundError
func ReasonOf(err error) FailureReason {
	var re *RoundError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

// StorageError represents errors accessing the catalog database or state files
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "migrate"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing config files and catalog imports
type ParseError struct {
	Source string // "config", "import"
	Key    string // file path or record id
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during catalog export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
