package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	appcontext "github.com/SeakMengs/AutoQR/internal/app_context"
	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/internal/controller"
	"github.com/SeakMengs/AutoQR/internal/env"
	filestorage "github.com/SeakMengs/AutoQR/internal/file_storage"
	"github.com/SeakMengs/AutoQR/internal/middleware"
	ratelimiter "github.com/SeakMengs/AutoQR/internal/rate_limiter"
	"github.com/SeakMengs/AutoQR/internal/route"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/gin-gonic/gin"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg.Redacted())

	defaultsPath := cfg.CONFIG_PATH
	if defaultsPath == "" {
		defaultsPath = config.ResolveDefaultsPath()
	}
	defaults, err := config.LoadQRDefaults(defaultsPath)
	if err != nil {
		logger.Warnw("Using fallback values for config.json", "path", defaultsPath, "error", err)
	}
	logger.Infow("Placement defaults loaded", "path", defaultsPath, "defaults", defaults)

	if cfg.Admin.SECRET == "" {
		secretFile := filepath.Join(cfg.Storage.DIR, "admin_secret")
		secret, err := util.WriteSecretFile(secretFile, 32)
		if err != nil {
			logger.Panic(err)
		}
		cfg.Admin.SECRET = secret
		logger.Warnw("ADMIN_SECRET not set, generated one for this run", "file", secretFile)
	}

	store, err := filestorage.NewStore(cfg.Storage.DIR, logger)
	if err != nil {
		logger.Panic(err)
	}

	if cfg.Minio.ENABLED {
		s3, err := filestorage.NewMinioClient(&cfg.Minio)
		if err != nil {
			logger.Error("Error connecting to minio")
			logger.Panic(err)
		}
		store.WithMirror(filestorage.NewMinioMirror(s3, cfg.Minio.BUCKET, logger))
		logger.Infow("Mirroring generated documents", "endpoint", cfg.Minio.ENDPOINT, "bucket", cfg.Minio.BUCKET)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	store.StartJanitor(ctx, cfg.Storage.CleanupInterval, cfg.Storage.SessionTTL)

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	app := appcontext.Application{
		Config:   &cfg,
		Logger:   logger,
		Defaults: &defaults,
		Store:    store,
		Inserter: autoqr.NewInserter(cfg.QR.PixelSize),
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := route.NewRouter(&app, controller.NewController(&app), _middleware)
	if err != nil {
		logger.Panic(err)
	}

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
