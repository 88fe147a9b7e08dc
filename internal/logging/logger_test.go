package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"chatty":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelInfo)

	l.Info("validation", "engine ready", "types", 12)
	l.Debug("validation", "hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"validation"`) || !strings.Contains(out, `"types":12`) {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestLogger_LogValidation(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelInfo)

	l.LogValidation("CNAME", "www.example.com", "invalid", time.Millisecond)
	l.LogValidation("A", "example.com", "valid", time.Millisecond)

	stats := l.GetStats()
	if stats["validations_logged"].(int64) != 2 {
		t.Errorf("validations_logged = %v, want 2", stats["validations_logged"])
	}
	if stats["failures_logged"].(int64) != 1 {
		t.Errorf("failures_logged = %v, want 1", stats["failures_logged"])
	}
	if !strings.Contains(buf.String(), `"outcome":"invalid"`) {
		t.Errorf("missing rejection event: %s", buf.String())
	}
}

func TestNew_WithDirectory(t *testing.T) {
	dir := t.TempDir()
	l, err := New(&Config{
		Level:             LevelDebug,
		Directory:         dir,
		AppLogFile:        "app.log",
		ValidationLogFile: "validations.log",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("test", "hello")
	l.LogValidation("MX", "example.com", "valid", time.Microsecond)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, name := range []string{"app.log", "validations.log"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("test", "nothing", nil)
	l.LogValidation("A", "x", "invalid", 0)
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
