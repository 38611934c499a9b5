package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/auth"
	"github.com/wolfleithold/guitar-harmony/internal/blob"
	"github.com/wolfleithold/guitar-harmony/internal/config"
	"github.com/wolfleithold/guitar-harmony/internal/handlers"
	"github.com/wolfleithold/guitar-harmony/internal/middleware"
	"github.com/wolfleithold/guitar-harmony/internal/monitoring"
	"github.com/wolfleithold/guitar-harmony/internal/store"
	"github.com/wolfleithold/guitar-harmony/internal/store/postgres"
	"github.com/wolfleithold/guitar-harmony/internal/store/sqlite"
)

func main() {
	startedAt := time.Now()
	cfg := config.Load()

	db, songs, guitars, files, err := openStores(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer db.Close()

	storage, uploadsPath, err := openBlobStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open blob storage: %v", err)
	}

	sessions, err := auth.NewSessions(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}

	monitor := monitoring.NewService(startedAt, db, uploadsPath)
	api := handlers.NewAPI(cfg, songs, guitars, files, storage, sessions, monitor)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.RequestMetricsMiddleware())
	router.Use(cors.New(corsConfig(cfg)))

	api.RegisterRoutes(router)

	log.Printf("Guitar Harmony API starting on :%s (db=%s, storage=%s)",
		cfg.Port, cfg.DBDriver, cfg.StorageBackend)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStores(cfg *config.Config) (*sql.DB, store.SongStore, store.GuitarStore, store.FileStore, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return db, sqlite.NewSongs(db), sqlite.NewGuitars(db), sqlite.NewFiles(db), nil

	case "postgres":
		db, err := postgres.Open(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := postgres.EnsureSchema(db); err != nil {
			db.Close()
			return nil, nil, nil, nil, err
		}
		return db, postgres.NewSongs(db), postgres.NewGuitars(db), postgres.NewFiles(db), nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}
}

// openBlobStorage also returns the local uploads path so monitoring can
// report directory usage; it is empty for remote storage.
func openBlobStorage(cfg *config.Config) (blob.Storage, string, error) {
	switch cfg.StorageBackend {
	case "local":
		storage, err := blob.NewLocal(cfg.UploadsPath)
		if err != nil {
			return nil, "", err
		}
		return storage, cfg.UploadsPath, nil

	case "cloudinary":
		if cfg.CloudinaryURL == "" {
			return nil, "", fmt.Errorf("CLOUDINARY_URL is required for the cloudinary storage backend")
		}
		storage, err := blob.NewCloudinary(cfg.CloudinaryURL, "guitar-harmony")
		if err != nil {
			return nil, "", err
		}
		return storage, "", nil

	default:
		return nil, "", fmt.Errorf("unknown STORAGE_BACKEND %q (want local or cloudinary)", cfg.StorageBackend)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if cfg.AllowedOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.AllowedOrigin}
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	return corsCfg
}
