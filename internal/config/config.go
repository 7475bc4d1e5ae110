package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type DB struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DB) DSN() string {
	return "host=" + d.Host +
		" port=" + d.Port +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

// Config holds all runtime configuration. It is built once in main and
// passed down explicitly; nothing reads the environment after Load.
type Config struct {
	Addr           string
	DB             DB
	JWTSecret      string
	TokenTTL       time.Duration
	UploadDir      string
	MaxUploadBytes int64
	NATSURL        string
	AllowedOrigin  string
}

func Load() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, ErrMissingSecret
	}

	cfg := Config{
		Addr: ":" + getEnv("PORT", "5000"),
		DB: DB{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "staffdesk"),
			Password: getEnv("DB_PASSWORD", "staffdesk"),
			Name:     getEnv("DB_NAME", "staffdesk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:      secret,
		TokenTTL:       getEnvDuration("JWT_EXPIRE", 30*24*time.Hour),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 5<<20),
		NATSURL:        os.Getenv("NATS_URL"),
		AllowedOrigin:  getEnv("CORS_ORIGIN", "*"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
