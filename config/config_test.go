package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, uint(1000), cfg.Upload.MaxWidth)
	assert.False(t, cfg.Redis.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "dbname=homeheart")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://shop:secret@db:5432/shop")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example,https://admin.example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("AWS_S3_BUCKET", "media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://shop:secret@db:5432/shop", cfg.Database.DSN())
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "media", cfg.S3.Bucket)
}
