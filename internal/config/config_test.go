package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "postgres")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "trivia_test")
}

func TestLoadDefaults(t *testing.T) {
	setPostgresEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "trivia-api", cfg.Name)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.Trivia.QuestionsPerPage)
	assert.Equal(t, 5, cfg.Trivia.QuizLength)
	assert.Equal(t, 5*time.Minute, cfg.Trivia.CategoryCacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=trivia_test sslmode=disable",
		cfg.Postgres.DSN())
}

func TestLoadRequiresPostgres(t *testing.T) {
	t.Setenv("PG_HOST", "")
	t.Setenv("PG_USER", "")
	t.Setenv("PG_PASSWORD", "")
	t.Setenv("PG_DATABASE", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("QUESTIONS_PER_PAGE", "0")

	_, err := Load(context.Background())
	assert.ErrorContains(t, err, "QUESTIONS_PER_PAGE")
}

func TestLoadOverrides(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("AUTH_JWT_SECRET", "editor-secret")
	t.Setenv("QUIZ_LENGTH", "8")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, 8, cfg.Trivia.QuizLength)
}

func TestLoadPostgres(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("PG_PORT", "6543")

	pg, err := LoadPostgres()
	require.NoError(t, err)
	assert.Equal(t, 6543, pg.Port)
	assert.Equal(t, "trivia_test", pg.Database)
}

func TestParseAuthGroup(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL", "1h")

	var a Auth
	require.NoError(t, Parse(&a))
	assert.True(t, a.Enabled())
	assert.Equal(t, "trivia-api", a.Issuer)
	assert.Equal(t, time.Hour, a.TokenTTL)
}
