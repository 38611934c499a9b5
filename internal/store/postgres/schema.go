package postgres

import (
	"database/sql"
	"fmt"

	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// EnsureSchema creates all required tables, runs additive migrations, and
// seeds the guitar catalog when it is empty. Safe to re-run on every start.
func EnsureSchema(db *sql.DB) error {
	if err := createGuitarsTable(db); err != nil {
		return err
	}
	if err := createSongsTable(db); err != nil {
		return err
	}
	if err := createFilesTable(db); err != nil {
		return err
	}
	return seedGuitars(db)
}

func createGuitarsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS guitars (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK(type IN ('Acoustic', 'Electric', 'Bass', 'Other')),
		notes TEXT,
		image_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create guitars table: %w", err)
	}
	return nil
}

func createSongsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		lyrics TEXT,
		key TEXT,
		guitar TEXT,
		guitar_id INTEGER REFERENCES guitars(id) ON DELETE SET NULL,
		readiness TEXT DEFAULT 'Writing' CHECK(readiness IN ('Idea', 'Writing', 'Practice', 'GigReady', 'Archived')),
		last_played_at TIMESTAMP,
		play_count INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}
	return ensureSongsSchema(db)
}

func createFilesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS files (
		id SERIAL PRIMARY KEY,
		song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_size BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create files table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_files_song_id ON files(song_id)`); err != nil {
		return fmt.Errorf("failed to ensure files song index: %w", err)
	}
	return nil
}

// ensureSongsSchema applies additive migrations for rows created before the
// guitar catalog and play tracking existed.
func ensureSongsSchema(db *sql.DB) error {
	migrations := []string{
		`ALTER TABLE songs ADD COLUMN IF NOT EXISTS guitar_id INTEGER REFERENCES guitars(id) ON DELETE SET NULL`,
		`ALTER TABLE songs ADD COLUMN IF NOT EXISTS last_played_at TIMESTAMP`,
		`ALTER TABLE songs ADD COLUMN IF NOT EXISTS play_count INTEGER DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_guitar_id ON songs(guitar_id)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_updated_at ON songs(updated_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to ensure songs schema: %w", err)
		}
	}
	return nil
}

// seedGuitars inserts the fixed reference catalog exactly once.
func seedGuitars(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM guitars`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count guitars: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, guitar := range store.SeedGuitars {
		_, err := db.Exec(
			`INSERT INTO guitars (name, type, notes) VALUES ($1, $2, $3)`,
			guitar.Name, guitar.Type, guitar.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to seed guitar %q: %w", guitar.Name, err)
		}
	}
	return nil
}
