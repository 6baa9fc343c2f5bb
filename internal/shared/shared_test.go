package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name    string
		in      string
		want    log.Level
		wantErr bool
	}{
		{name: "empty defaults to info", in: "", want: log.InfoLevel},
		{name: "debug", in: "debug", want: log.DebugLevel},
		{name: "mixed case", in: "WARN", want: log.WarnLevel},
		{name: "unknown", in: "chatty", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.WarnLevel)

	logger.Info("hidden")
	WithLogger(logger, "component", "test").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=test")
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateID())
}
