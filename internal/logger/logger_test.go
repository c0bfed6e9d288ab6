package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("collected %d files", 3)

	if got := buf.String(); got != "[DEBUG] collected 3 files\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")
	Info("should not appear")
	Warn("should not appear")
	Section("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingest")
	Info("dataset %s", "/src")
	Warn("skipped %s", "a.bin")

	want := "\n=== Ingest ===\n[INFO] dataset /src\n[WARN] skipped a.bin\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestTimestamps(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	SetTimestamps(true)

	Debug("hello")

	line := buf.String()
	if !strings.HasSuffix(line, " [DEBUG] hello\n") {
		t.Errorf("unexpected output: %q", line)
	}
	if strings.HasPrefix(line, "[DEBUG]") {
		t.Error("expected timestamp prefix")
	}
}

func TestToFile(t *testing.T) {
	defer reset()

	path := filepath.Join(t.TempDir(), "logs", "gengpt.log")
	closer, err := ToFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	SetVerbose(true)

	Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] written to file") {
		t.Errorf("log file missing entry: %q", data)
	}
}
