package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/monitoring"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Allowed upload extensions and the content types served back on download.
var (
	allowedUploadExtensions = map[string]struct{}{
		".zip": {},
		".mp3": {},
		".wav": {},
	}

	downloadContentTypes = map[string]string{
		".zip": "application/zip",
		".mp3": "audio/mpeg",
		".wav": "audio/wav",
	}
)

func fileTypeForExtension(ext string) string {
	if ext == ".zip" {
		return models.FileTypeLogic
	}
	return models.FileTypeAudio
}

func contentTypeForName(name string) string {
	if contentType, ok := downloadContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return contentType
	}
	return "application/octet-stream"
}

func (a *API) ListSongFiles(c *gin.Context) {
	songID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files, err := a.files.ListBySong(songID)
	if err != nil {
		log.Printf("Error listing files for song %d: %v", songID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving files"})
		return
	}
	if files == nil {
		files = []models.FileRecord{}
	}
	c.JSON(http.StatusOK, files)
}

// UploadSongFile stores an attachment. The extension decides admission
// (.zip/.mp3/.wav); when the name has no extension the first bytes are
// sniffed instead. Bytes are durably stored before the metadata row exists.
func (a *API) UploadSongFile(c *gin.Context) {
	startedAt := time.Now()
	var uploadedBytes int64
	uploadSuccess := false
	defer func() {
		monitoring.RecordUpload(uploadedBytes, time.Since(startedAt), uploadSuccess)
	}()

	songID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := a.songs.Get(songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		log.Printf("Error checking song %d before upload: %v", songID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking song"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if header.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is empty"})
		return
	}
	if header.Size > a.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":            "File is too large",
			"max_upload_bytes": a.cfg.MaxUploadBytes,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, allowed := allowedUploadExtensions[ext]; !allowed {
		sniffedExt, sniffErr := sniffUploadExtension(file)
		if sniffErr != nil {
			log.Printf("Error sniffing upload for song %d: %v", songID, sniffErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading file"})
			return
		}
		if sniffedExt == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           "Unsupported file type. Allowed: zip, mp3, wav",
				"original_name":   header.Filename,
				"allowed_formats": []string{"zip", "mp3", "wav"},
			})
			return
		}
		ext = sniffedExt
	}

	storedName := uuid.NewString() + ext
	location, err := a.storage.Save(c.Request.Context(), storedName, file, header.Size)
	if err != nil {
		log.Printf("Error storing upload for song %d: %v", songID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing file"})
		return
	}
	uploadedBytes = header.Size

	id, err := a.files.Create(store.NewFile{
		SongID:       songID,
		Filename:     storedName,
		OriginalName: header.Filename,
		FileType:     fileTypeForExtension(ext),
		FilePath:     location,
		FileSize:     header.Size,
	})
	if err != nil {
		log.Printf("Error saving file metadata for song %d: %v", songID, err)
		if removeErr := a.storage.Remove(c.Request.Context(), location); removeErr != nil {
			log.Printf("Error removing orphaned blob %s: %v", location, removeErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving file"})
		return
	}

	record, err := a.files.Get(id)
	if err != nil {
		log.Printf("Error loading created file %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading file"})
		return
	}

	uploadSuccess = true
	c.JSON(http.StatusCreated, record)
}

// sniffUploadExtension reads the first bytes, rewinds, and maps the detected
// content type onto an accepted extension. Empty string means unsupported.
func sniffUploadExtension(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	bytesRead, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if bytesRead == 0 {
		return "", nil
	}

	ext := strings.ToLower(mimetype.Detect(buffer[:bytesRead]).Extension())
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return "", nil
	}
	return ext, nil
}

// DownloadFile streams local blobs and redirects to remote ones.
func (a *API) DownloadFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := a.files.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("Error retrieving file %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving file"})
		return
	}

	if a.storage.Redirectable() {
		c.Redirect(http.StatusFound, record.FilePath)
		return
	}

	if _, err := os.Stat(record.FilePath); os.IsNotExist(err) {
		log.Printf("File %d missing on disk: %s", id, record.FilePath)
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	downloadName := sanitizeHeaderFilename(record.OriginalName)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Type", contentTypeForName(record.Filename))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName))
	c.File(record.FilePath)
}

// DeleteFile removes the backing bytes, then the metadata row. A missing id
// is treated as already deleted.
func (a *API) DeleteFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := a.files.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		log.Printf("Error retrieving file %d for deletion: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving file"})
		return
	}

	if err := a.storage.Remove(c.Request.Context(), record.FilePath); err != nil {
		log.Printf("Error removing blob for file %d (%s): %v", id, record.FilePath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting file"})
		return
	}

	if err := a.files.Delete(id); err != nil {
		log.Printf("Error deleting file row %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func sanitizeHeaderFilename(name string) string {
	safe := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(name, "\r", ""), "\n", ""))
	safe = strings.ReplaceAll(safe, `"`, "")
	if safe == "" {
		return "file"
	}
	return safe
}
