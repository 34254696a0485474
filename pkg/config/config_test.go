package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresStoreSettings(t *testing.T) {
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_ACCESS_KEY", "")

	cfg, err := Load()
	require.ErrorIs(t, err, ErrMissingStoreConfig)
	assert.Nil(t, cfg)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_URL", "postgres://localhost/school")
	t.Setenv("STORE_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 0.0, cfg.Grades.ScoreMin)
	assert.Equal(t, 10.0, cfg.Grades.ScoreMax)
	assert.Equal(t, 5*time.Minute, cfg.Reports.CacheTTL)
	assert.True(t, cfg.Reports.CompareStoreView)
	assert.Equal(t, "postgres://localhost/school", cfg.Store.URL)
}

func TestLoadStrictScoreBound(t *testing.T) {
	t.Setenv("STORE_URL", "postgres://localhost/school")
	t.Setenv("STORE_ACCESS_KEY", "secret")
	t.Setenv("GRADE_SCORE_MIN", "1")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Grades.ScoreMin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidateRejectsInvertedBound(t *testing.T) {
	cfg := &Config{
		Store:  StoreConfig{URL: "postgres://x", AccessKey: "k"},
		Grades: GradesConfig{ScoreMin: 10, ScoreMax: 1},
	}
	assert.Error(t, cfg.Validate())
}
