// Package logger provides leveled logging for the verdict CLI.
// Debug, info and warning lines are written only in verbose mode
// (--verbose) and show which patterns, fallbacks and strategies
// produced each field. Errors are written regardless of verbosity.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level tags one log line.
type Level string

// Levels in increasing severity.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// mu also serialises writes to output.
var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
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

// SetOutput redirects log lines; os.Stderr by default.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level != LevelError && !verbose {
		return
	}
	fmt.Fprintf(output, "["+string(level)+"] "+format+"\n", args...)
}

// Debug logs pattern and strategy traces.
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

// Info logs progress of long operations.
func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warn logs recoverable failures: a skipped document, a disabled strategy.
func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Error logs failures the user must see. Always written.
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Section writes a header separating the trace of one batch or document.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
