package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"disabled", zerolog.Disabled, true},
		{"chatty", zerolog.NoLevel, false},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseLevel(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	testutil.AssertNoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Int("depth", 2).Msg("search")

	var entry map[string]interface{}
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	testutil.AssertEqual(t, entry["message"], "search", nil)
	testutil.AssertEqual(t, entry["depth"], float64(2), nil)
	testutil.AssertEqual(t, entry["level"], "info", nil)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
