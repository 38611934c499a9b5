// Package handlers exposes the HTTP surface. All handlers are methods on an
// injected API value; nothing in this package reaches for globals.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/auth"
	"github.com/wolfleithold/guitar-harmony/internal/blob"
	"github.com/wolfleithold/guitar-harmony/internal/config"
	"github.com/wolfleithold/guitar-harmony/internal/middleware"
	"github.com/wolfleithold/guitar-harmony/internal/monitoring"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

type API struct {
	cfg      *config.Config
	songs    store.SongStore
	guitars  store.GuitarStore
	files    store.FileStore
	storage  blob.Storage
	sessions *auth.Sessions
	monitor  *monitoring.Service
}

func NewAPI(
	cfg *config.Config,
	songs store.SongStore,
	guitars store.GuitarStore,
	files store.FileStore,
	storage blob.Storage,
	sessions *auth.Sessions,
	monitor *monitoring.Service,
) *API {
	return &API{
		cfg:      cfg,
		songs:    songs,
		guitars:  guitars,
		files:    files,
		storage:  storage,
		sessions: sessions,
		monitor:  monitor,
	}
}

// RegisterRoutes mounts the whole surface on the router. Login, health, and
// status stay open; everything else sits behind the session gate.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", a.Health)
	router.GET("/api/status", a.Status)
	router.POST("/auth/login", a.Login)
	router.POST("/auth/logout", a.Logout)

	private := router.Group("/")
	private.Use(middleware.SessionRequired(a.sessions))
	{
		private.GET("/songs", a.ListSongs)
		private.POST("/songs", a.CreateSong)
		private.GET("/songs/:id", a.GetSong)
		private.PUT("/songs/:id", a.UpdateSong)
		private.DELETE("/songs/:id", a.DeleteSong)
		private.POST("/songs/:id/played", a.MarkSongPlayed)

		private.GET("/songs/:id/files", a.ListSongFiles)
		private.POST("/songs/:id/files", a.UploadSongFile)
		private.GET("/files/:id", a.DownloadFile)
		private.DELETE("/files/:id", a.DeleteFile)

		private.GET("/guitars", a.ListGuitars)
		private.POST("/guitars", a.CreateGuitar)
		private.GET("/guitars/:id", a.GetGuitar)
		private.PUT("/guitars/:id", a.UpdateGuitar)
		private.DELETE("/guitars/:id", a.DeleteGuitar)

		private.GET("/api/monitoring/stats", a.MonitoringStats)
	}
}
