package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  port: "9000"
database:
  driver: sqlite
  dsn: "file::memory:"
jwt:
  secret: "s3cret"
  expiration: 2h
cors:
  alloworigins: ["http://localhost:3000"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Cors.AllowOrigins)

	// defaults fill the gaps
	assert.Equal(t, "foodgram", cfg.App.Name)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, 20, cfg.RateLimit.AuthPerMinute)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
jwt:
  secret: "from-file"
`)
	t.Setenv("FOODGRAM_JWT_SECRET", "from-env")
	t.Setenv("FOODGRAM_DATABASE_DSN", "file:test.db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "file:test.db", cfg.Database.Dsn)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "database:\n  driver: sqlite\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("unknown database driver", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "database:\n  driver: oracle\njwt:\n  secret: x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oracle")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "storage:\n  driver: ftp\njwt:\n  secret: x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ftp")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})
}

func TestMediaBaseURL(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig = &Config{}
	AppConfig.Storage.MediaURL = "/media/"
	assert.Equal(t, "/media", MediaBaseURL())

	AppConfig.App.BaseURL = "https://foodgram.example.com/"
	assert.Equal(t, "https://foodgram.example.com/media", MediaBaseURL())
}
