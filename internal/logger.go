package internal

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logLevel = LogLevelInfo
	logger   = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogOutput redirects log output, mostly for tests
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logAt(level LogLevel, tag, format string, args ...interface{}) {
	if logLevel >= level {
		logger.Printf(tag+" "+format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logAt(LogLevelError, "[ERROR]", format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logAt(LogLevelWarn, "[WARN]", format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logAt(LogLevelInfo, "[INFO]", format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logAt(LogLevelDebug, "[DEBUG]", format, args...)
}

// RoundLogger prefixes every line with the id of the round it belongs to.
type RoundLogger struct {
	prefix string
}

// NewRoundLogger returns a logger for one round. An empty id logs unprefixed.
func NewRoundLogger(roundID string) RoundLogger {
	if roundID == "" {
		return RoundLogger{}
	}
	return RoundLogger{prefix: fmt.Sprintf("[round %s] ", roundID)}
}

func (l RoundLogger) Error(format string, args ...interface{}) {
	LogError(l.prefix+format, args...)
}

func (l RoundLogger) Warn(format string, args ...interface{}) {
	LogWarn(l.prefix+format, args...)
}

func (l RoundLogger) Info(format string, args ...interface{}) {
	LogInfo(l.prefix+format, args...)
}

func (l RoundLogger) Debug(format string, args ...interface{}) {
	LogDebug(l.prefix+format, args...)
}
