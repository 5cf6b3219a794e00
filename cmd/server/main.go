package main

import (
	"context"                               // Context for startup checks
	"smart_condominium/internal/api"        // HTTP handlers and routes
	"smart_condominium/internal/config"     // Configuration
	"smart_condominium/internal/db"         // Database connection
	"smart_condominium/internal/face"       // Face encoder interface
	"smart_condominium/internal/face/dlib"  // dlib face encoder
	"smart_condominium/internal/middleware" // Request logging
	"smart_condominium/internal/ocr"        // Plate text detection
	"smart_condominium/internal/report"     // PDF renderer
	"smart_condominium/internal/security"   // Recognition service
	"smart_condominium/internal/storage"    // Captured image storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	ctx := context.Background()

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client, caching is skipped without an address
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Recognition backends are optional: the routes answer 503 without them
	var encoder face.Encoder
	if rec, err := dlib.NewRecognizer(cfg.FaceModelsDir); err != nil {
		logrus.WithField("error", err.Error()).Warn("Face recognition disabled")
	} else {
		defer rec.Close()
		encoder = rec
	}
	var detector ocr.TextDetector
	if vd, err := ocr.NewVisionDetector(ctx); err != nil {
		logrus.WithField("error", err.Error()).Warn("Plate recognition disabled")
	} else {
		defer vd.Close()
		detector = vd
	}

	// Captured images go to S3 when configured
	var store storage.ObjectStorage = storage.NewMemoryStorage()
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			logrus.Fatalf("failed to configure object storage: %v", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			logrus.Fatalf("failed to prepare bucket %s: %v", cfg.Storage.Bucket, err)
		}
		store = s3
	} else {
		logrus.Warn("S3 storage not configured, captured images are kept in memory")
	}

	renderer := report.NewChromedpRenderer(cfg.ChromeRemoteURL)
	defer renderer.Close()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.SetupRoutes(r, api.Deps{
		DB:       gdb,
		Redis:    redisClient,
		Config:   cfg,
		Security: security.NewService(gdb, encoder, detector, store, cfg.FaceTolerance),
		Storage:  store,
		Renderer: renderer,
	})

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
