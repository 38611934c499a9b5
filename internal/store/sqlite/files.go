package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Files implements store.FileStore over the embedded database. Rows point at
// blob bytes on the local filesystem; byte removal is the caller's job.
type Files struct {
	db *sql.DB
}

func NewFiles(db *sql.DB) *Files {
	return &Files{db: db}
}

const fileColumns = `id, song_id, filename, original_name, file_type, file_path, file_size, created_at`

func scanFile(r row) (*models.FileRecord, error) {
	var file models.FileRecord
	err := r.Scan(
		&file.ID, &file.SongID, &file.Filename, &file.OriginalName,
		&file.FileType, &file.FilePath, &file.FileSize, &file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func collectFiles(rows *sql.Rows) ([]models.FileRecord, error) {
	defer rows.Close()

	files := []models.FileRecord{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, rows.Err()
}

func (f *Files) Create(file store.NewFile) (int, error) {
	result, err := f.db.Exec(
		`INSERT INTO files (song_id, filename, original_name, file_type, file_path, file_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		file.SongID, file.Filename, file.OriginalName, file.FileType, file.FilePath, file.FileSize,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("error creating file record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading created file id: %w", err)
	}
	return int(id), nil
}

func (f *Files) Get(id int) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`

	file, err := scanFile(f.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting file: %w", err)
	}
	return file, nil
}

func (f *Files) ListBySong(songID int) ([]models.FileRecord, error) {
	rows, err := f.db.Query(
		`SELECT `+fileColumns+` FROM files WHERE song_id = ? ORDER BY created_at DESC, id DESC`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing files for song %d: %w", songID, err)
	}
	return collectFiles(rows)
}

func (f *Files) Delete(id int) error {
	if _, err := f.db.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting file %d: %w", id, err)
	}
	return nil
}
