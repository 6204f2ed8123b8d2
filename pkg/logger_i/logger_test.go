package logger_i

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/mindsync/internal/config"
)

func captureDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	buf := &bytes.Buffer{}
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

func TestLogger_PicksUpLaterDefault(t *testing.T) {
	log := NewLogger("early")
	buf := captureDefault(t, slog.LevelDebug)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-9")
	log.With("documentId", "doc-1").WithContext(ctx).Info("hello")

	out := buf.String()
	for _, want := range []string{`"component":"early"`, `"documentId":"doc-1"`, `"traceId":"trace-9"`, `"msg":"hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	base := NewLogger("base")
	buf := captureDefault(t, slog.LevelDebug)

	_ = base.With("a", 1)
	base.Warn("plain")

	if strings.Contains(buf.String(), `"a":1`) {
		t.Errorf("With leaked fields into the parent: %s", buf.String())
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	log := NewLogger("quiet")
	buf := captureDefault(t, slog.LevelInfo)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %s", buf.String())
	}
}
