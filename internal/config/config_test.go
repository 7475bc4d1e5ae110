package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":5000", cfg.Addr)
	require.Equal(t, "test-secret", cfg.JWTSecret)
	require.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	require.Empty(t, cfg.NATSURL)
	require.Equal(t, "*", cfg.AllowedOrigin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRE", "1h")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8081", cfg.Addr)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, "db.internal", cfg.DB.Host)
	require.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestDSN(t *testing.T) {
	db := DB{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	require.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", db.DSN())
}
