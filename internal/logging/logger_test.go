package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "vocabquiz", "production", "debug").With().Str("request_id", "abc").Logger()

	ctx := IntoContext(context.Background(), logger)
	FromContext(ctx, zerolog.Nop()).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "app=vocabquiz")
}

func TestFromContextFallback(t *testing.T) {
	var buf bytes.Buffer
	fallback := NewWithWriter(&buf, "vocabquiz", "production", "info")

	FromContext(context.Background(), fallback).Info().Msg("fallback used")
	assert.Contains(t, buf.String(), "fallback used")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "vocabquiz", "production", "warn")
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestBadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "vocabquiz", "production", "chatty")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
