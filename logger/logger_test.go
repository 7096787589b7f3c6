package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerWritesRequestIDAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, &Options{Level: slog.LevelDebug, NoColor: true}))

	ctx := ContextWithRequestID(context.Background(), "req-42")
	log.With("route", "/transform").InfoContext(ctx, "generated bundle", "channels", 6, Err(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "INFO ")
	assert.Contains(t, out, "req-42")
	assert.Contains(t, out, "| generated bundle")
	assert.Contains(t, out, "route=/transform")
	assert.Contains(t, out, "channels=6")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "\x1b[")
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, &Options{Level: slog.LevelWarn, NoColor: true}))

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, &Options{NoColor: true}))

	log.WithGroup("pdf").Info("parsed", "pages", 3)

	assert.Contains(t, buf.String(), "pdf.pages=3")
}

func TestErrNil(t *testing.T) {
	assert.True(t, Err(nil).Equal(slog.Attr{}))
}

func TestRequestIDMissing(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}
