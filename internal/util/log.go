package util

import (
	"fmt"
	"os"
	"time"
)

// Level represents the severity of a log message
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	minLevel  = LevelInfo
	useColors = true
)

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		minLevel = LevelDebug
	}
}

// SetQuiet enables quiet mode (errors only)
func SetQuiet(quiet bool) {
	if quiet {
		minLevel = LevelError
	}
}

// IsQuiet reports whether quiet mode is active
func IsQuiet() bool {
	return minLevel >= LevelError
}

// SetColors enables or disables colored output
func SetColors(enabled bool) {
	useColors = enabled
}

func logLine(level Level, tag, color, format string, args ...interface{}) {
	if level < minLevel {
		return
	}
	ts := time.Now().Format("15:04:05")
	if useColors {
		ts = color + ts + "\033[0m"
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", ts, tag, fmt.Sprintf(format, args...))
}

// DebugLog logs debug messages
func DebugLog(format string, args ...interface{}) {
	logLine(LevelDebug, "[DEBUG]", "\033[90m", format, args...)
}

// InfoLog logs informational messages
func InfoLog(format string, args ...interface{}) {
	logLine(LevelInfo, "[INFO] ", "\033[36m", format, args...)
}

// WarnLog logs warning messages
func WarnLog(format string, args ...interface{}) {
	logLine(LevelWarn, "[WARN] ", "\033[33m", format, args...)
}

// ErrorLog logs error messages
func ErrorLog(format string, args ...interface{}) {
	logLine(LevelError, "[ERROR]", "\033[31m", format, args...)
}

// SuccessLog logs success messages (always shown unless quiet)
func SuccessLog(format string, args ...interface{}) {
	logLine(LevelInfo, "[OK]   ", "\033[32m", format, args...)
}
