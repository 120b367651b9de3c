package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	log.With("component", "web").WithGroup("req").Info("converted", "word", "khon")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "converted")
	assert.Contains(t, out, "component"+reset+"=web")
	assert.NotContains(t, out, "req.component")
	assert.Contains(t, out, "req.word")
	assert.Contains(t, out, "khon")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "json", "warn")

	log.Info("skipped")
	log.Warn("kept", "n", 1)

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"n":1`)
}

func TestPrettyHandlerAttrsKeepGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, slog.LevelInfo))

	log.WithGroup("req").With("id", 7).WithGroup("word").With("base", "khon").Info("converted", "tone", 3)

	out := buf.String()
	assert.Contains(t, out, "req.id"+reset+"=7")
	assert.Contains(t, out, "req.word.base"+reset+"=khon")
	assert.Contains(t, out, "req.word.tone"+reset+"=3")
}
