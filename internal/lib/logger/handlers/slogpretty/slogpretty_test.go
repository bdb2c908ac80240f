package slogpretty

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	buf := new(bytes.Buffer)
	log := slog.New(NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("op", "reviews.ReviewService.Create").Info("review created", "title_id", 3)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "review created")
	assert.Contains(t, out, `"op": "reviews.ReviewService.Create"`)
	assert.Contains(t, out, `"title_id": 3`)
}

func TestPrettyHandlerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	log := slog.New(NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
