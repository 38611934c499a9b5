package models

import (
	"time"
)

// File type tags derived from the uploaded extension.
const (
	FileTypeAudio = "audio"
	FileTypeLogic = "logic"
)

// FileRecord is the metadata row for one uploaded artifact attached to a song.
// FilePath is a local path with the disk blob store and a URL with the remote one.
type FileRecord struct {
	ID           int       `json:"id" db:"id"`
	SongID       int       `json:"song_id" db:"song_id"`
	Filename     string    `json:"filename" db:"filename"`
	OriginalName string    `json:"original_name" db:"original_name"`
	FileType     string    `json:"file_type" db:"file_type"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
