package cli

import (
	"bufio"
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/review"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagSessionDir = ""
	flagContextLines = 0
	flagIgnoreDirs = ""
	flagLogLevel = ""
	flagForce = false
	flagIncludePartial = false
}

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagSessionDir = "/tmp/session"
	flagContextLines = 5
	flagIgnoreDirs = "vendor,dist"
	flagLogLevel = "debug"
	defer resetFlags()

	m := buildOverrides()
	want := map[string]string{
		"outputDir":    "/tmp/session",
		"contextLines": "5",
		"ignoreDirs":   "vendor,dist",
		"logLevel":     "debug",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("overrides[%q] = %q, want %q", k, m[k], v)
		}
	}
	if len(m) != len(want) {
		t.Errorf("overrides = %v, want exactly %v", m, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"bogus", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadVerdict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  decision.Decision
	}{
		{"approve short", "a\n", decision.Approved},
		{"approve word", "approve\n", decision.Approved},
		{"reject", "r\n", decision.Rejected},
		{"skip", "s\n", decision.Skip},
		{"uppercase", "A\n", decision.Approved},
		{"invalid then approve", "huh\na\n", decision.Approved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bufio.NewScanner(strings.NewReader(tt.input))
			var out bytes.Buffer
			got, err := readVerdict(in, &out)
			if err != nil {
				t.Fatalf("readVerdict error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readVerdict(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadVerdict_Quit(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader("q\n"))
	var out bytes.Buffer
	_, err := readVerdict(in, &out)
	if !errors.Is(err, review.ErrQuit) {
		t.Errorf("err = %v, want ErrQuit", err)
	}
}

func TestReadVerdict_EOF(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader(""))
	var out bytes.Buffer
	_, err := readVerdict(in, &out)
	if !errors.Is(err, review.ErrQuit) {
		t.Errorf("err on EOF = %v, want ErrQuit", err)
	}
}
