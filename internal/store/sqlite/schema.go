package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// EnsureSchema creates the tables, applies additive column migrations for
// databases created by older builds, and seeds the guitar catalog when it is
// empty. Safe to re-run on every start.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS guitars (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('Acoustic', 'Electric', 'Bass', 'Other')),
			notes TEXT,
			image_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			lyrics TEXT,
			key TEXT,
			guitar TEXT,
			guitar_id INTEGER REFERENCES guitars(id),
			readiness TEXT DEFAULT 'Writing' CHECK(readiness IN ('Idea', 'Writing', 'Practice', 'GigReady', 'Archived')),
			last_played_at DATETIME,
			play_count INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			song_id INTEGER NOT NULL,
			filename TEXT NOT NULL,
			original_name TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_size INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_song_id ON files(song_id)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_guitar_id ON songs(guitar_id)`,
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	if err := migrateSongsTable(db); err != nil {
		return err
	}
	return seedGuitars(db)
}

// migrateSongsTable adds the columns introduced after the first release to
// databases that predate them.
func migrateSongsTable(db *sql.DB) error {
	columns, err := tableColumns(db, "songs")
	if err != nil {
		return err
	}

	migrations := map[string]string{
		"readiness":      `ALTER TABLE songs ADD COLUMN readiness TEXT DEFAULT 'Writing' CHECK(readiness IN ('Idea', 'Writing', 'Practice', 'GigReady', 'Archived'))`,
		"guitar_id":      `ALTER TABLE songs ADD COLUMN guitar_id INTEGER REFERENCES guitars(id)`,
		"last_played_at": `ALTER TABLE songs ADD COLUMN last_played_at DATETIME`,
		"play_count":     `ALTER TABLE songs ADD COLUMN play_count INTEGER DEFAULT 0`,
	}

	for column, migration := range migrations {
		if _, ok := columns[column]; ok {
			continue
		}
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to add songs.%s: %w", column, err)
		}
	}
	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to read table info for %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
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
			`INSERT INTO guitars (name, type, notes) VALUES (?, ?, ?)`,
			guitar.Name, string(guitar.Type), guitar.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to seed guitar %q: %w", guitar.Name, err)
		}
	}
	return nil
}
