package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/AutoQR/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	Storage     StorageConfig
	QR          QRConfig
	RateLimiter RateLimiterConfig
	Admin       AdminConfig
	Minio       MinioConfig
	// CONFIG_PATH points to config.json. Empty means search the usual
	// locations, see ResolveDefaultsPath.
	CONFIG_PATH string
}

type StorageConfig struct {
	DIR string
	// Uploads larger than this are rejected before parsing.
	MaxUploadBytes int64
	// Sessions untouched for longer than this are removed by the janitor.
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

type QRConfig struct {
	PixelSize   int
	PreviewZoom float64
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type AdminConfig struct {
	// SECRET guards the admin routes. When empty a random one is generated
	// at startup and written to STORAGE_DIR/admin_secret.
	SECRET string
}

type MinioConfig struct {
	ENABLED    bool
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	USE_SSL    bool
	BUCKET     string
}

const redacted = "[REDACTED]"

// Redacted returns a copy of c that is safe to log.
func (c Config) Redacted() Config {
	for _, v := range []*string{&c.Admin.SECRET, &c.Minio.ACCESS_KEY, &c.Minio.SECRET_KEY} {
		if *v != "" {
			*v = redacted
		}
	}
	return c
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(env.GetString(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return d
}

func GetConfig() Config {
	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		Storage: StorageConfig{
			DIR:             env.GetString("STORAGE_DIR", "storage"),
			MaxUploadBytes:  int64(env.GetInt("MAX_UPLOAD_MB", 50)) << 20,
			SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
			CleanupInterval: getDuration("SESSION_CLEANUP_INTERVAL", time.Hour),
		},
		QR: QRConfig{
			PixelSize:   env.GetInt("QR_PIXEL_SIZE", 512),
			PreviewZoom: env.GetFloat("PREVIEW_ZOOM", 2.0),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            getDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Admin: AdminConfig{
			SECRET: env.GetString("ADMIN_SECRET", ""),
		},
		Minio: MinioConfig{
			ENABLED:    env.GetBool("MINIO_ENABLED", false),
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", "127.0.0.1:9000"),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
			BUCKET:     env.GetString("MINIO_BUCKET", "autoqr"),
		},
		CONFIG_PATH: env.GetString("CONFIG_PATH", ""),
	}
}
