package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{" warn ", false, false},
		{"bogus", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.level)

			log.Debug().Msg("debug-line")
			log.Info().Msg("info-line")

			out := buf.String()
			if strings.Contains(out, "debug-line") != tt.wantDebug {
				t.Errorf("debug output present = %v, want %v", !tt.wantDebug, tt.wantDebug)
			}
			if strings.Contains(out, "info-line") != tt.wantInfo {
				t.Errorf("info output present = %v, want %v", !tt.wantInfo, tt.wantInfo)
			}
		})
	}
}

func TestNew_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Info().Str("name", "Alice").Msg("marked present")

	out := buf.String()
	if !strings.Contains(out, "marked present") || !strings.Contains(out, "Alice") {
		t.Errorf("unexpected output %q", out)
	}
}
