package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("API_BASE_URL", "http://api.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBUrl:          "postgres://localhost/portfolio",
			JWTSecret:      "dev-secret",
			JWTExpiry:      time.Hour,
			StorageDriver:  StorageDriverLocal,
			MaxUploadBytes: 1024,
		}
	}

	t.Run("accepts a complete config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("requires database url", func(t *testing.T) {
		cfg := valid()
		cfg.DBUrl = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("rejects short secret in release mode", func(t *testing.T) {
		cfg := valid()
		cfg.GinMode = "release"
		assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
	})

	t.Run("s3 driver needs a bucket", func(t *testing.T) {
		cfg := valid()
		cfg.StorageDriver = StorageDriverS3
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.StorageDriver = "ftp"
		assert.ErrorContains(t, cfg.Validate(), "unknown STORAGE_DRIVER")
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.dev", "http://b.dev"}, splitList(" https://a.dev/ ,, http://b.dev"))
	assert.Nil(t, splitList(""))
}
