package observability

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_JSONWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "warn")

	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	l.Warn().Msg("kept")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON line: %v (%q)", err, buf.String())
	}
	if line["service"] != "dealer-db" || line["message"] != "kept" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestNewLogger_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "loud")
	l.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("expected info output")
	}
}
