package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("TRUSTED_PROXIES", "")
	cfg := Load()
	assert.Empty(t, cfg.TrustedProxyList())
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.False(t, cfg.UseMemoryStorage())
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "articles", cfg.ESArticlesIndex)
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("RATE_LIMIT_AUTH", "not-a-number")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "blog")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.True(t, cfg.UseMemoryStorage())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.RateLimitAuth)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxyList())
	assert.Equal(t, "postgres://u:p@db:5433/blog?sslmode=require", cfg.PostgresDSN())
}
