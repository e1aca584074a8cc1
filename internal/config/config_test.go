package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/messagely.db", cfg.Database.Path)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "mailbox-exports", cfg.Storage.KeyPrefix)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 15*time.Minute, cfg.URLTTL())
	assert.False(t, cfg.ExportsEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MESSAGELY_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("MESSAGELY_AUTH_JWTSECRET", "from-env")
	t.Setenv("MESSAGELY_AUTH_BCRYPTCOST", "10")
	t.Setenv("MESSAGELY_STORAGE_BUCKET", "mailboxes")
	t.Setenv("MESSAGELY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "mailboxes", cfg.Storage.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.ExportsEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.JWTSecret = "k"
		c.Auth.BcryptCost = 12
		c.Storage.URLTTLMinutes = 15
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "  " }},
		{"cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }},
		{"cost too high", func(c *Config) { c.Auth.BcryptCost = 40 }},
		{"zero url ttl", func(c *Config) { c.Storage.URLTTLMinutes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseDotEnvLine(t *testing.T) {
	tests := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"MESSAGELY_AUTH_JWTSECRET=abc", "MESSAGELY_AUTH_JWTSECRET", "abc", true},
		{`  KEY = "quoted value" `, "KEY", "quoted value", true},
		{"export KEY='single'", "KEY", "single", true},
		{"KEY=a=b", "KEY", "a=b", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"=value", "", "", false},
		{"novalue", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := parseDotEnvLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}
