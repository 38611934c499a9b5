package monitoring

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"
)

// Service reports runtime and storage statistics. The database handle and
// uploads directory are injected at construction; the uploads figures stay
// zero when blobs live in remote storage.
type Service struct {
	startedAt   time.Time
	db          *sql.DB
	uploadsPath string
}

type Snapshot struct {
	TimestampUTC        string  `json:"timestamp_utc"`
	UptimeSeconds       int64   `json:"uptime_seconds"`
	HTTPActiveRequests  int64   `json:"http_active_requests"`
	HTTPTotalRequests   uint64  `json:"http_total_requests"`
	DBOpenConnections   int     `json:"db_open_connections"`
	DBInUseConnections  int     `json:"db_in_use_connections"`
	DBWaitCount         int64   `json:"db_wait_count"`
	Goroutines          int     `json:"goroutines"`
	GoMemoryAllocBytes  uint64  `json:"go_memory_alloc_bytes"`
	GoMemorySysBytes    uint64  `json:"go_memory_sys_bytes"`
	GoHeapInUseBytes    uint64  `json:"go_heap_in_use_bytes"`
	GoGCCount           uint32  `json:"go_gc_count"`
	SongsTotal          int64   `json:"songs_total"`
	GuitarsTotal        int64   `json:"guitars_total"`
	FilesTotal          int64   `json:"files_total"`
	FilesTotalSizeBytes int64   `json:"files_total_size_bytes"`
	UploadsSizeBytes    int64   `json:"uploads_size_bytes"`
	UploadsFilesCount   int64   `json:"uploads_files_count"`
	UploadsFSTotalBytes uint64  `json:"uploads_fs_total_bytes"`
	UploadsFSFreeBytes  uint64  `json:"uploads_fs_free_bytes"`
	UploadRequests      uint64  `json:"upload_requests"`
	UploadFailures      uint64  `json:"upload_failures"`
	UploadBytesTotal    int64   `json:"upload_bytes_total"`
	UploadAvgDurationMS float64 `json:"upload_avg_duration_ms"`
}

// NewService wires a monitoring service. uploadsPath may be empty when
// uploads are stored remotely.
func NewService(startedAt time.Time, db *sql.DB, uploadsPath string) *Service {
	return &Service{startedAt: startedAt, db: db, uploadsPath: uploadsPath}
}

// Healthy reports whether the database answers a ping.
func (s *Service) Healthy() error {
	return s.db.Ping()
}

func (s *Service) Snapshot() Snapshot {
	stats := s.db.Stats()
	activeHTTP, totalHTTP := getHTTPStats()
	uploads := getUploadStats()

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	snap := Snapshot{
		TimestampUTC:        time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:       int64(time.Since(s.startedAt).Seconds()),
		HTTPActiveRequests:  activeHTTP,
		HTTPTotalRequests:   totalHTTP,
		DBOpenConnections:   stats.OpenConnections,
		DBInUseConnections:  stats.InUse,
		DBWaitCount:         stats.WaitCount,
		Goroutines:          runtime.NumGoroutine(),
		GoMemoryAllocBytes:  memory.Alloc,
		GoMemorySysBytes:    memory.Sys,
		GoHeapInUseBytes:    memory.HeapInuse,
		GoGCCount:           memory.NumGC,
		UploadRequests:      uploads.RequestsTotal,
		UploadFailures:      uploads.FailedTotal,
		UploadBytesTotal:    uploads.BytesTotal,
		UploadAvgDurationMS: uploads.AvgDurationMS,
	}

	_ = s.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&snap.SongsTotal)
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM guitars`).Scan(&snap.GuitarsTotal)
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&snap.FilesTotal)
	_ = s.db.QueryRow(`SELECT COALESCE(SUM(file_size), 0) FROM files`).Scan(&snap.FilesTotalSizeBytes)

	if s.uploadsPath != "" {
		snap.UploadsSizeBytes = dirSize(s.uploadsPath)
		snap.UploadsFilesCount = dirFileCount(s.uploadsPath)
		snap.UploadsFSTotalBytes, snap.UploadsFSFreeBytes = fsUsage(s.uploadsPath)
	}

	return snap
}

func dirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

func dirFileCount(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		total++
		return nil
	})
	return total
}
