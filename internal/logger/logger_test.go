package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Level(t *testing.T) {
	if lvl := New("debug").GetLevel(); lvl != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", lvl)
	}
	if lvl := New("nonsense").GetLevel(); lvl != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %v", lvl)
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Int("user_id", 7).Msg("budget exceeded")

	out := buf.String()
	if !strings.Contains(out, "budget exceeded") || !strings.Contains(out, `"user_id":7`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("expected log output from retrieved logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("expected default logger to be enabled")
	}
}
