package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, LevelWarn)
	defer SetupLogger(&buf, LevelInfo)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestStructuredAttributes(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, LevelInfo)

	Info("tracking state refreshed", "count", 3)

	out := buf.String()
	assert.Contains(t, out, "tracking state refreshed")
	assert.Contains(t, out, "count=3")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, LevelInfo)

	With("tracking").Info("seeded")

	assert.Contains(t, buf.String(), "component=tracking")
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, LogLevel("nonsense"))

	Debug("hidden")
	Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestMaskSensitive(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: "<not set>"},
		{name: "short", value: "abcd", want: "<set>"},
		{name: "long", value: "ghp_supersecret", want: "ghp_...***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskSensitive(tt.value)
			assert.Equal(t, tt.want, got)
			if len(tt.value) > 4 {
				assert.False(t, strings.Contains(got, tt.value[4:]), "masked value must not leak the secret")
			}
		})
	}
}
