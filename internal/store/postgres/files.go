package postgres

import (
	"database/sql"
	"fmt"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Files implements store.FileStore over PostgreSQL. Rows reference blob
// bytes stored remotely; byte removal is the caller's job.
type Files struct {
	db *sql.DB
}

func NewFiles(db *sql.DB) *Files {
	return &Files{db: db}
}

const fileColumns = `id, song_id, filename, original_name, file_type, file_path, file_size, created_at`

func scanFile(row songRow) (*models.FileRecord, error) {
	var file models.FileRecord
	err := row.Scan(
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
	query := `
		INSERT INTO files (song_id, filename, original_name, file_type, file_path, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int
	err := f.db.QueryRow(query,
		file.SongID, file.Filename, file.OriginalName, file.FileType, file.FilePath, file.FileSize,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating file record: %w", err)
	}
	return id, nil
}

func (f *Files) Get(id int) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

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
		`SELECT `+fileColumns+` FROM files WHERE song_id = $1 ORDER BY created_at DESC`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing files for song %d: %w", songID, err)
	}
	return collectFiles(rows)
}

func (f *Files) Delete(id int) error {
	if _, err := f.db.Exec(`DELETE FROM files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting file %d: %w", id, err)
	}
	return nil
}
