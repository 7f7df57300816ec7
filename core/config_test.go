package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DEBUG", "false")
	t.Setenv("TEST_API_MODE", "Production")
	t.Setenv("TEST_API_REMOTEURL", "https://store.example.com/")
	t.Setenv("TEST_API_TIMEOUT", "3s")
	t.Setenv("TEST_IDENTITY_OFFLINE", "true")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, APIModeProduction, conf.API.Mode)
	assert.Equal(t, "https://store.example.com", conf.BaseURL())
	assert.Equal(t, 3*time.Second, conf.API.Timeout)
	assert.True(t, conf.Identity.Offline)
	assert.Equal(t, "coursesphere", conf.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, conf.JWTExpirationDelta)
}

func TestConfig_BaseURL(t *testing.T) {
	conf := &Config{}
	conf.API.LocalURL = "http://localhost:3001"
	conf.API.RemoteURL = "https://store.example.com"

	conf.API.Mode = APIModeDevelopment
	assert.Equal(t, "http://localhost:3001", conf.BaseURL())
	conf.API.Mode = APIModeProduction
	assert.Equal(t, "https://store.example.com", conf.BaseURL())
}
