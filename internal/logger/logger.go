// Package logger prints verbose diagnostics for scholardocs.
//
// Nothing is written unless verbose mode is on (--verbose or
// SCHOLARDOCS_VERBOSE). Each line carries its level and the time since the
// process started, so a slow compression stage stands out in the log of a
// document job.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

// Levels in increasing severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "DEBUG"
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr

	// clock is replaced in tests.
	clock   = time.Now
	started = clock()
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	elapsed := clock().Sub(started).Seconds()
	fmt.Fprintf(output, "[%s +%.3fs] %s\n", level, elapsed, fmt.Sprintf(format, args...))
}

// Debug logs detail such as each compression attempt.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs a milestone such as a saved output.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs a recoverable problem such as a HEIC fallback.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section starts a visually separated block, one per job or checklist.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs how long an operation took when the returned func is called.
//
//	defer logger.Timed("merge")()
func Timed(name string) func() {
	start := clock()
	return func() {
		Debug("%s took %s", name, clock().Sub(start).Round(time.Millisecond))
	}
}
