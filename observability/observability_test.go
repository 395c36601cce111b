package observability_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"pdfcheck/observability"
)

func TestSlogAdapterEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Info("batch done",
		observability.String("file", "a.pdf"),
		observability.Int("count", 7),
		observability.Duration("elapsed", 2*time.Second))

	out := buf.String()
	for _, want := range []string{"batch done", "file=a.pdf", "count=7", "elapsed=2s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSlogAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	l.With(observability.String("run", "r1")).Warn("slow file")
	if !strings.Contains(buf.String(), "run=r1") {
		t.Errorf("output %q missing bound field", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	var l observability.Logger = observability.NopLogger{}
	l.Debug("ignored")
	l.With(observability.Int("n", 1)).Error("also ignored")
}
