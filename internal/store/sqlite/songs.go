package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Songs implements store.SongStore over the embedded database. Timestamps
// are written from Go so values scan back deterministically.
type Songs struct {
	db *sql.DB
}

func NewSongs(db *sql.DB) *Songs {
	return &Songs{db: db}
}

const songColumns = `s.id, s.title, COALESCE(s.lyrics, ''), COALESCE(s.key, ''), COALESCE(s.guitar, ''),
	s.guitar_id, s.readiness, s.last_played_at, s.play_count, s.created_at, s.updated_at,
	g.id, g.name, g.type, g.notes, g.image_url, g.created_at`

const songFrom = `FROM songs s LEFT JOIN guitars g ON s.guitar_id = g.id`

type row interface {
	Scan(dest ...any) error
}

func scanSong(r row) (*models.Song, error) {
	var song models.Song
	var guitarID sql.NullInt64
	var lastPlayed sql.NullTime
	var gID sql.NullInt64
	var gName, gType, gNotes, gImageURL sql.NullString
	var gCreatedAt sql.NullTime

	err := r.Scan(
		&song.ID, &song.Title, &song.Lyrics, &song.Key, &song.Guitar,
		&guitarID, &song.Readiness, &lastPlayed, &song.PlayCount,
		&song.CreatedAt, &song.UpdatedAt,
		&gID, &gName, &gType, &gNotes, &gImageURL, &gCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if guitarID.Valid {
		id := int(guitarID.Int64)
		song.GuitarID = &id
	}
	if lastPlayed.Valid {
		t := lastPlayed.Time
		song.LastPlayedAt = &t
	}
	if gID.Valid {
		info := &models.Guitar{
			ID:   int(gID.Int64),
			Name: gName.String,
			Type: models.GuitarType(gType.String),
		}
		if gNotes.Valid {
			info.Notes = &gNotes.String
		}
		if gImageURL.Valid {
			info.ImageURL = &gImageURL.String
		}
		if gCreatedAt.Valid {
			info.CreatedAt = gCreatedAt.Time
		}
		song.GuitarInfo = info
	}

	return &song, nil
}

func collectSongs(rows *sql.Rows) ([]models.Song, error) {
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, *song)
	}
	return songs, rows.Err()
}

func (s *Songs) Create(song store.NewSong) (int, error) {
	var guitarID sql.NullInt64
	if song.GuitarID != nil {
		guitarID = sql.NullInt64{Int64: int64(*song.GuitarID), Valid: true}
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO songs (title, lyrics, key, guitar, guitar_id, readiness, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		song.Title, song.Lyrics, song.Key, song.Guitar, guitarID, string(song.Readiness), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("error creating song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading created song id: %w", err)
	}
	return int(id), nil
}

func (s *Songs) Get(id int) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` ` + songFrom + ` WHERE s.id = ?`

	song, err := scanSong(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting song: %w", err)
	}
	return song, nil
}

func (s *Songs) List(opts store.ListOptions) ([]models.Song, error) {
	conditions := []string{}
	args := []any{}

	if opts.Readiness != nil {
		conditions = append(conditions, "s.readiness = ?")
		args = append(args, string(*opts.Readiness))
	}
	if opts.ExcludeArchived {
		conditions = append(conditions, "s.readiness != 'Archived'")
	}

	query := `SELECT ` + songColumns + ` ` + songFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	switch opts.Sort {
	case store.SortPlayedRecent:
		query += " ORDER BY s.last_played_at DESC NULLS LAST, s.updated_at DESC"
	case store.SortPlayedOldest:
		query += " ORDER BY s.last_played_at ASC NULLS LAST, s.updated_at DESC"
	default:
		query += " ORDER BY s.updated_at DESC"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing songs: %w", err)
	}
	return collectSongs(rows)
}

func (s *Songs) Search(query string, readiness *models.Readiness) ([]models.Song, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	args := []any{pattern, pattern, pattern, pattern, pattern}

	sqlQuery := `SELECT ` + songColumns + ` ` + songFrom + `
		WHERE (lower(s.title) LIKE ?
		   OR lower(COALESCE(s.lyrics, '')) LIKE ?
		   OR lower(COALESCE(s.key, '')) LIKE ?
		   OR lower(COALESCE(s.guitar, '')) LIKE ?
		   OR lower(COALESCE(g.name, '')) LIKE ?)`

	if readiness != nil {
		sqlQuery += " AND s.readiness = ?"
		args = append(args, string(*readiness))
	}

	sqlQuery += " ORDER BY s.updated_at DESC"

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching songs: %w", err)
	}
	return collectSongs(rows)
}

func (s *Songs) Update(id int, update store.SongUpdate) error {
	if update.Empty() {
		return nil
	}

	builder := store.NewUpdateBuilder(store.DialectSQLite)
	if update.Title != nil {
		builder.Set("title", *update.Title)
	}
	if update.Lyrics != nil {
		builder.Set("lyrics", *update.Lyrics)
	}
	if update.Key != nil {
		builder.Set("key", *update.Key)
	}
	if update.Guitar != nil {
		builder.Set("guitar", *update.Guitar)
	}
	if update.GuitarID != nil {
		builder.Set("guitar_id", *update.GuitarID)
	}
	if update.Readiness != nil {
		builder.Set("readiness", string(*update.Readiness))
	}
	builder.Set("updated_at", time.Now().UTC())

	query, args := builder.Build("songs", id)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("error updating song %d: %w", id, err)
	}
	return nil
}

func (s *Songs) MarkPlayed(id int) (*models.Song, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`UPDATE songs
		 SET last_played_at = ?, play_count = play_count + 1, updated_at = ?
		 WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("error marking song %d as played: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.Get(id)
}

func (s *Songs) Delete(id int) ([]models.FileRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id, song_id, filename, original_name, file_type, file_path, file_size, created_at
		 FROM files WHERE song_id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing files for song %d: %w", id, err)
	}

	files, err := collectFiles(rows)
	if err != nil {
		return nil, fmt.Errorf("error scanning files for song %d: %w", id, err)
	}

	if _, err := tx.Exec(`DELETE FROM files WHERE song_id = ?`, id); err != nil {
		return nil, fmt.Errorf("error deleting files for song %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM songs WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("error deleting song %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing song delete: %w", err)
	}
	return files, nil
}
