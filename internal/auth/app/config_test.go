package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Issuer:     "sharedrop-auth",
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "too-short"
		require.Error(t, cfg.Validate())
	})

	t.Run("access TTL must be shorter than refresh TTL", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTTL = cfg.RefreshTTL
		require.Error(t, cfg.Validate())

		cfg.AccessTTL = cfg.RefreshTTL + time.Hour
		require.Error(t, cfg.Validate())
	})

	t.Run("zero TTL", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTTL = 0
		require.Error(t, cfg.Validate())
	})
}
