package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"":        zerolog.WarnLevel,
		"debug":   zerolog.DebugLevel,
		" INFO ":  zerolog.InfoLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.WarnLevel,
		"disable": zerolog.WarnLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): expected %v; got %v", in, want, got)
		}
	}
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn; got %q", buf.String())
	}
	l.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output; got %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf, "debug"))
	l := FromContext(ctx)
	l.Debug().Msg("from ctx")
	if !strings.Contains(buf.String(), "from ctx") {
		t.Fatalf("expected logger from context to write; got %q", buf.String())
	}

	// Missing logger: disabled, but usable.
	nop := FromContext(context.Background())
	nop.Error().Msg("dropped")
}

func TestOpenFile_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.log")
	l, c, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	l.Info().Msg("line one")
	_ = c.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "line one") {
		t.Fatalf("expected log file to contain message; got %q", string(b))
	}
}
