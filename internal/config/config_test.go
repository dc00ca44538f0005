package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STORAGE_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, int64(8*1024*1024), cfg.Media.MaxUploadBytes)
	assert.Equal(t, int64(178956970), cfg.Media.MaxPixels)
	assert.Equal(t, 100, cfg.Media.ThumbWidth)
	assert.Equal(t, 100, cfg.Media.ThumbHeight)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "/uploads", cfg.Storage.URLPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Empty(t, cfg.Server.AllowOrigins)
	assert.Equal(t, 30, cfg.Server.LoginPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_DSN", "host=db user=app dbname=app sslmode=disable")
	t.Setenv("THUMB_WIDTH", "200")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 200, cfg.Media.ThumbWidth)
	assert.Equal(t, int64(1024), cfg.Media.MaxUploadBytes)
	// 非法数字回退默认值
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"zero thumb", map[string]string{"THUMB_HEIGHT": "0"}},
		{"s3 without bucket", map[string]string{"STORAGE_PROVIDER": "s3", "S3_BUCKET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
