package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "ACCESS_TOKEN_TTL", "FACE_TOLERANCE", "REDIS_DB", "S3_REGION", "MAX_IMAGE_BYTES"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, DefaultAppPort, cfg.AppPort)
	assert.Equal(t, DefaultDBDriver, cfg.DBDriver)
	assert.Equal(t, DefaultAccessTokenTTL, cfg.AccessTokenTTL)
	assert.Equal(t, DefaultFaceTolerance, cfg.FaceTolerance)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, DefaultS3Region, cfg.Storage.Region)
	assert.EqualValues(t, DefaultMaxImageBytes, cfg.MaxImageBytes)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("FACE_TOLERANCE", "0.45")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IS_PROD", "true")
	t.Setenv("S3_BUCKET", "captures")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("MAX_IMAGE_BYTES", "2048")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.InDelta(t, 0.45, cfg.FaceTolerance, 1e-9)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
	assert.True(t, cfg.Storage.Enabled())
	assert.EqualValues(t, 2048, cfg.MaxImageBytes)
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	t.Setenv("FACE_TOLERANCE", "-1")
	t.Setenv("REDIS_DB", "x")

	cfg := LoadConfig()

	assert.Equal(t, DefaultAccessTokenTTL, cfg.AccessTokenTTL)
	assert.Equal(t, DefaultFaceTolerance, cfg.FaceTolerance)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{DBUser: "condo", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "condominium"}
	assert.Equal(t, "condo:pw@tcp(db:3306)/condominium?parseTime=true&charset=utf8mb4", cfg.MySQLDSN())
}

func TestStorageConfig_Enabled(t *testing.T) {
	assert.False(t, StorageConfig{}.Enabled())
	assert.False(t, StorageConfig{Bucket: "b", AccessKey: "k"}.Enabled())
	assert.True(t, StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"}.Enabled())
}
