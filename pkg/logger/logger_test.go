package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_TagsServiceField(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Output: &buf, Service: "setlist-worker"})

	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"service":"setlist-worker"`) {
		t.Errorf("service field missing from output: %s", buf.String())
	}
}

func TestInit_DefaultService(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Output: &buf})

	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"service":"setlist"`) {
		t.Errorf("default service field missing from output: %s", buf.String())
	}
}

func TestInit_OnlyFirstCallWins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "error", Output: &buf})
	log := Init(Options{Level: "debug"})

	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected level from the first Init, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
