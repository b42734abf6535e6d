package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/programme-lv/ojclient/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New("warn", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNewUnknownLevel(t *testing.T) {
	_, err := logger.New("loud", &bytes.Buffer{})
	require.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.Discard()
	ctx := logger.WithLogger(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New("info", &buf)
	require.NoError(t, err)

	ctx := logger.With(logger.WithLogger(context.Background(), log), "command", "submit")
	logger.FromContext(ctx).Info("submitting")

	assert.Contains(t, buf.String(), "command=submit")
	assert.Contains(t, buf.String(), "submitting")
}
