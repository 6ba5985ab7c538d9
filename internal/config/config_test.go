package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "https://api.comick.fun", cfg.ComickBaseURL)
	assert.Equal(t, 3, cfg.HintsPerRound)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.HintOptions().TranslationStatus)
	assert.True(t, cfg.MatchOptions().ShortTitleFallthrough)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HINT_TRANSLATION_STATUS", "false")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("NODE_ENV", "production")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.HintOptions().TranslationStatus)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HINTS_PER_ROUND", "0")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("HINTS_PER_ROUND", "three")
	_, err = config.Load()
	assert.Error(t, err)
}
