package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")

	Load()

	assert.Equal(t, "9090", AppConfig.Port)
	assert.Equal(t, 15*time.Minute, AppConfig.AccessTokenTTL)
	assert.Equal(t, 5, AppConfig.LoginRateLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, AppConfig.CORSOrigins)
	assert.Equal(t, 7*24*time.Hour, AppConfig.RefreshTokenTTL)
}
