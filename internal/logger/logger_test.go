package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewParsesLevel(t *testing.T) {
	log := New("warn")
	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", log.GetLevel())
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	log := New("not-a-level")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info fallback", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", buf.String())
	}
}
