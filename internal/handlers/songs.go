package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// parseReadinessQuery validates an optional readiness filter. The second
// return value is false when the client sent an unknown stage.
func parseReadinessQuery(raw string) (*models.Readiness, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if !models.ValidReadiness(raw) {
		return nil, false
	}
	readiness := models.Readiness(raw)
	return &readiness, true
}

// ListSongs is the one list/search entry point: a non-empty q switches from
// listing to searching, and the remaining parameters narrow either path.
func (a *API) ListSongs(c *gin.Context) {
	readiness, ok := parseReadinessQuery(c.Query("readiness"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid readiness filter"})
		return
	}

	var songs []models.Song
	var err error

	if query := strings.TrimSpace(c.Query("q")); query != "" {
		songs, err = a.songs.Search(query, readiness)
	} else {
		opts := store.ListOptions{
			Readiness:       readiness,
			ExcludeArchived: isTruthy(c.Query("excludeArchived")),
		}
		switch sort := c.Query("sort"); sort {
		case "", string(store.SortUpdated):
			opts.Sort = store.SortUpdated
		case string(store.SortPlayedRecent):
			opts.Sort = store.SortPlayedRecent
		case string(store.SortPlayedOldest):
			opts.Sort = store.SortPlayedOldest
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort key"})
			return
		}
		songs, err = a.songs.List(opts)
	}

	if err != nil {
		log.Printf("Error listing songs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving songs"})
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}
	c.JSON(http.StatusOK, songs)
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type createSongRequest struct {
	Title     string `json:"title"`
	Lyrics    string `json:"lyrics"`
	Key       string `json:"key"`
	Guitar    string `json:"guitar"`
	GuitarID  *int   `json:"guitar_id"`
	Readiness string `json:"readiness"`
}

func (a *API) CreateSong(c *gin.Context) {
	var req createSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	readiness := models.ReadinessWriting
	if req.Readiness != "" {
		if !models.ValidReadiness(req.Readiness) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid readiness value"})
			return
		}
		readiness = models.Readiness(req.Readiness)
	}

	var guitarID *int
	if req.GuitarID != nil && *req.GuitarID > 0 {
		guitarID = req.GuitarID
	}

	id, err := a.songs.Create(store.NewSong{
		Title:     title,
		Lyrics:    req.Lyrics,
		Key:       req.Key,
		Guitar:    req.Guitar,
		GuitarID:  guitarID,
		Readiness: readiness,
	})
	if err != nil {
		log.Printf("Error creating song: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating song"})
		return
	}

	song, err := a.songs.Get(id)
	if err != nil {
		log.Printf("Error loading created song %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading created song"})
		return
	}
	c.JSON(http.StatusCreated, song)
}

func (a *API) GetSong(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	song, err := a.songs.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		log.Printf("Error retrieving song %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving song"})
		return
	}
	c.JSON(http.StatusOK, song)
}

type updateSongRequest struct {
	Title     *string `json:"title"`
	Lyrics    *string `json:"lyrics"`
	Key       *string `json:"key"`
	Guitar    *string `json:"guitar"`
	GuitarID  *int    `json:"guitar_id"`
	Readiness *string `json:"readiness"`
}

// UpdateSong applies a partial update. A guitar_id of 0 clears the catalog
// reference; absent fields are left untouched.
func (a *API) UpdateSong(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := store.SongUpdate{
		Title:  req.Title,
		Lyrics: req.Lyrics,
		Key:    req.Key,
		Guitar: req.Guitar,
	}

	if req.GuitarID != nil {
		if *req.GuitarID > 0 {
			update.GuitarID = &sql.NullInt64{Int64: int64(*req.GuitarID), Valid: true}
		} else {
			update.GuitarID = &sql.NullInt64{}
		}
	}

	if req.Readiness != nil {
		if !models.ValidReadiness(*req.Readiness) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid readiness value"})
			return
		}
		readiness := models.Readiness(*req.Readiness)
		update.Readiness = &readiness
	}

	if err := a.songs.Update(id, update); err != nil {
		log.Printf("Error updating song %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating song"})
		return
	}

	song, err := a.songs.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		log.Printf("Error loading updated song %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading updated song"})
		return
	}
	c.JSON(http.StatusOK, song)
}

// DeleteSong removes the song and its file rows in one transaction, then
// drops the backing blobs after commit. Blob removal failures are logged but
// do not fail the request.
func (a *API) DeleteSong(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := a.songs.Delete(id)
	if err != nil {
		log.Printf("Error deleting song %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting song"})
		return
	}

	for _, file := range removed {
		if removeErr := a.storage.Remove(c.Request.Context(), file.FilePath); removeErr != nil {
			log.Printf("Error removing blob for file %d (%s): %v", file.ID, file.FilePath, removeErr)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) MarkSongPlayed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	song, err := a.songs.MarkPlayed(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		log.Printf("Error marking song %d played: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error marking song played"})
		return
	}
	c.JSON(http.StatusOK, song)
}
