package util

import (
	"io"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected to a pipe and returns what
// was written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = old

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(out)
}

func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		minLevel = LevelInfo
		useColors = true
	})
	minLevel = LevelInfo
	useColors = true
}

func TestVerboseEnablesDebug(t *testing.T) {
	resetLogger(t)

	out := captureStderr(t, func() { DebugLog("hidden message") })
	if strings.Contains(out, "hidden message") {
		t.Error("debug output shown without verbose mode")
	}

	SetVerbose(true)
	out = captureStderr(t, func() { DebugLog("rows loaded: %d", 42) })
	if !strings.Contains(out, "rows loaded: 42") {
		t.Errorf("expected debug output in verbose mode, got %q", out)
	}
	if !strings.Contains(out, "[DEBUG]") {
		t.Errorf("expected the debug tag, got %q", out)
	}
}

func TestQuietSuppressesBelowError(t *testing.T) {
	resetLogger(t)

	SetQuiet(true)
	if !IsQuiet() {
		t.Fatal("IsQuiet false after SetQuiet(true)")
	}

	out := captureStderr(t, func() {
		InfoLog("routine")
		WarnLog("concerning")
		ErrorLog("broken")
	})
	if strings.Contains(out, "routine") || strings.Contains(out, "concerning") {
		t.Errorf("info/warn output shown in quiet mode: %q", out)
	}
	if !strings.Contains(out, "broken") {
		t.Errorf("error output suppressed in quiet mode: %q", out)
	}
}

func TestSetColorsDisablesEscapes(t *testing.T) {
	resetLogger(t)

	SetColors(false)
	out := captureStderr(t, func() { InfoLog("plain") })
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no ANSI escapes with colors off, got %q", out)
	}
	if !strings.Contains(out, "plain") {
		t.Errorf("message missing from output: %q", out)
	}
}
