package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, closeLog, err := Setup(dir, "debug")
	require.NoError(t, err)

	logger.Info().Str("url", "https://example.com").Msg("page loaded")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, "tnav.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "page loaded"))
	assert.True(t, strings.Contains(string(data), "https://example.com"))
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	logger, closeLog, err := Setup(t.TempDir(), "chatty")
	require.NoError(t, err)
	defer closeLog()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	logger, closeLog, err := Setup(t.TempDir(), "info")
	require.NoError(t, err)
	defer closeLog()

	ctx := WithContext(context.Background(), logger)
	got := FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, logger.GetLevel(), got.GetLevel())
}

func TestFromContext_Empty(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
