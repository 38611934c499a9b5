package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/auth"
	"github.com/wolfleithold/guitar-harmony/internal/blob"
	"github.com/wolfleithold/guitar-harmony/internal/config"
	"github.com/wolfleithold/guitar-harmony/internal/monitoring"
	"github.com/wolfleithold/guitar-harmony/internal/store/sqlite"
)

const (
	testPassword      = "test-password"
	testSessionSecret = "guitar-harmony-test-secret-1234567890"
)

type testEnv struct {
	router      *gin.Engine
	db          *sql.DB
	sessions    *auth.Sessions
	uploadsPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	uploadsPath := t.TempDir()
	storage, err := blob.NewLocal(uploadsPath)
	if err != nil {
		t.Fatalf("blob.NewLocal: %v", err)
	}

	sessions, err := auth.NewSessions(testSessionSecret)
	if err != nil {
		t.Fatalf("auth.NewSessions: %v", err)
	}

	cfg := &config.Config{
		AuthPassword:   testPassword,
		MaxUploadBytes: 1 << 20,
		UploadsPath:    uploadsPath,
	}

	monitor := monitoring.NewService(time.Now(), db, uploadsPath)
	api := NewAPI(cfg, sqlite.NewSongs(db), sqlite.NewGuitars(db), sqlite.NewFiles(db), storage, sessions, monitor)

	router := gin.New()
	api.RegisterRoutes(router)

	return &testEnv{router: router, db: db, sessions: sessions, uploadsPath: uploadsPath}
}

func (e *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Mint()
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

// doJSON sends an authenticated JSON request and returns the recorder.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(e.sessionCookie(t))

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

// doUpload posts one multipart file to an authenticated route.
func (e *testEnv) doUpload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(e.sessionCookie(t))

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func mustStatus(t *testing.T, actual, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("json.Unmarshal: %v (body: %s)", err, resp.Body.String())
	}
}

// createTestSong makes a song over HTTP and returns its id.
func (e *testEnv) createTestSong(t *testing.T, body map[string]any) int {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/songs", body)
	mustStatus(t, resp.Code, http.StatusCreated)

	var song struct {
		ID int `json:"id"`
	}
	decodeJSON(t, resp, &song)
	if song.ID == 0 {
		t.Fatalf("created song has no id: %s", resp.Body.String())
	}
	return song.ID
}
