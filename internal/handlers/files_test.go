package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wolfleithold/guitar-harmony/internal/models"
)

// Minimal valid ZIP: empty central directory end record.
var zipBytes = []byte("PK\x05\x06" + strings.Repeat("\x00", 18))

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	resp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "demo.txt", []byte("plain text content"))
	mustStatus(t, resp.Code, http.StatusBadRequest)

	var out map[string]any
	decodeJSON(t, resp, &out)
	errorMessage, _ := out["error"].(string)
	if !strings.Contains(strings.ToLower(errorMessage), "unsupported") {
		t.Fatalf("expected unsupported type error, got: %s", errorMessage)
	}
}

func TestUploadZipRecordsLogicType(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	resp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "demo.zip", zipBytes)
	mustStatus(t, resp.Code, http.StatusCreated)

	var record models.FileRecord
	decodeJSON(t, resp, &record)
	if record.FileType != models.FileTypeLogic {
		t.Fatalf("expected file_type logic, got %q", record.FileType)
	}
	if record.OriginalName != "demo.zip" {
		t.Fatalf("expected original name preserved, got %q", record.OriginalName)
	}
	if record.Filename == "demo.zip" {
		t.Fatal("stored filename must not reuse the original name")
	}
	if _, err := os.Stat(record.FilePath); err != nil {
		t.Fatalf("expected blob on disk at %s: %v", record.FilePath, err)
	}
	if record.FileSize != int64(len(zipBytes)) {
		t.Fatalf("expected size %d, got %d", len(zipBytes), record.FileSize)
	}
}

func TestUploadMp3RecordsAudioType(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	resp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "track.MP3", []byte("ID3fakeaudio"))
	mustStatus(t, resp.Code, http.StatusCreated)

	var record models.FileRecord
	decodeJSON(t, resp, &record)
	if record.FileType != models.FileTypeAudio {
		t.Fatalf("expected file_type audio, got %q", record.FileType)
	}
}

func TestUploadToMissingSong(t *testing.T) {
	env := newTestEnv(t)
	resp := env.doUpload(t, "/songs/9999/files", "track.mp3", []byte("ID3fakeaudio"))
	mustStatus(t, resp.Code, http.StatusNotFound)
}

func TestUploadWithoutFileField(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/songs/%d/files", songID), nil)
	req.AddCookie(env.sessionCookie(t))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusBadRequest)
}

func TestListSongFiles(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "one.zip", zipBytes)
	env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "two.mp3", []byte("ID3fakeaudio"))

	resp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/songs/%d/files", songID), nil)
	mustStatus(t, resp.Code, http.StatusOK)

	var files []models.FileRecord
	decodeJSON(t, resp, &files)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
}

func TestDownloadStreamsWithContentType(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	uploadResp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "project.zip", zipBytes)
	mustStatus(t, uploadResp.Code, http.StatusCreated)
	var record models.FileRecord
	decodeJSON(t, uploadResp, &record)

	resp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/files/%d", record.ID), nil)
	mustStatus(t, resp.Code, http.StatusOK)

	if contentType := resp.Header().Get("Content-Type"); contentType != "application/zip" {
		t.Fatalf("expected application/zip, got %q", contentType)
	}
	disposition := resp.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "project.zip") {
		t.Fatalf("expected original filename in disposition, got %q", disposition)
	}
	if resp.Body.Len() != len(zipBytes) {
		t.Fatalf("expected %d bytes, got %d", len(zipBytes), resp.Body.Len())
	}
}

func TestDownloadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	resp := env.doJSON(t, http.MethodGet, "/files/9999", nil)
	mustStatus(t, resp.Code, http.StatusNotFound)
}

func TestDeleteFileRemovesBytesAndRow(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Host"})

	uploadResp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "gone.mp3", []byte("ID3fakeaudio"))
	mustStatus(t, uploadResp.Code, http.StatusCreated)
	var record models.FileRecord
	decodeJSON(t, uploadResp, &record)

	resp := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/files/%d", record.ID), nil)
	mustStatus(t, resp.Code, http.StatusOK)

	var out map[string]any
	decodeJSON(t, resp, &out)
	if success, _ := out["success"].(bool); !success {
		t.Fatalf("expected success true, got %s", resp.Body.String())
	}

	if _, err := os.Stat(record.FilePath); !os.IsNotExist(err) {
		t.Fatalf("expected blob removed from disk, stat err: %v", err)
	}
	getResp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/files/%d", record.ID), nil)
	mustStatus(t, getResp.Code, http.StatusNotFound)
}

func TestDeleteMissingFileIsSilentSuccess(t *testing.T) {
	env := newTestEnv(t)
	resp := env.doJSON(t, http.MethodDelete, "/files/9999", nil)
	mustStatus(t, resp.Code, http.StatusOK)
}

func TestDeleteSongRemovesUploadedBlobs(t *testing.T) {
	env := newTestEnv(t)
	songID := env.createTestSong(t, map[string]any{"title": "Doomed"})

	uploadResp := env.doUpload(t, fmt.Sprintf("/songs/%d/files", songID), "attached.zip", zipBytes)
	mustStatus(t, uploadResp.Code, http.StatusCreated)
	var record models.FileRecord
	decodeJSON(t, uploadResp, &record)

	resp := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/songs/%d", songID), nil)
	mustStatus(t, resp.Code, http.StatusOK)

	if _, err := os.Stat(record.FilePath); !os.IsNotExist(err) {
		t.Fatalf("expected cascade to remove blob, stat err: %v", err)
	}
	listResp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/songs/%d/files", songID), nil)
	mustStatus(t, listResp.Code, http.StatusOK)
	var files []models.FileRecord
	decodeJSON(t, listResp, &files)
	if len(files) != 0 {
		t.Fatalf("expected no file rows after song delete, got %d", len(files))
	}
}
