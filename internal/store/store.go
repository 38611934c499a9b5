// Package store defines the persistence interfaces shared by the sqlite and
// postgres backends. Call sites depend on these interfaces only; main.go is
// the single place that knows which backend is wired in.
package store

import (
	"database/sql"
	"errors"

	"github.com/wolfleithold/guitar-harmony/internal/models"
)

// ErrNotFound is returned by read operations for a missing id. Mutating
// operations (Update, Delete) treat a missing id as a silent no-op instead.
var ErrNotFound = errors.New("not found")

// SongSort selects the ordering of List results.
type SongSort string

const (
	SortUpdated      SongSort = "updated"
	SortPlayedRecent SongSort = "played-recent"
	SortPlayedOldest SongSort = "played-oldest"
)

// ListOptions narrows and orders a song listing. Readiness and
// ExcludeArchived compose with logical AND.
type ListOptions struct {
	Readiness       *models.Readiness
	ExcludeArchived bool
	Sort            SongSort
}

// NewSong carries the fields of a song creation. Defaults (Untitled title,
// Writing readiness) are applied by the caller before the store is invoked.
type NewSong struct {
	Title     string
	Lyrics    string
	Key       string
	Guitar    string
	GuitarID  *int
	Readiness models.Readiness
}

// SongUpdate is a partial update: nil fields are left untouched. GuitarID
// uses sql.NullInt64 so the reference can be cleared as well as set.
type SongUpdate struct {
	Title     *string
	Lyrics    *string
	Key       *string
	Guitar    *string
	GuitarID  *sql.NullInt64
	Readiness *models.Readiness
}

// Empty reports whether the update touches no fields. An empty update must
// not be written at all, so updated_at stays unchanged.
func (u SongUpdate) Empty() bool {
	return u.Title == nil && u.Lyrics == nil && u.Key == nil &&
		u.Guitar == nil && u.GuitarID == nil && u.Readiness == nil
}

type NewGuitar struct {
	Name     string
	Type     models.GuitarType
	Notes    *string
	ImageURL *string
}

type GuitarUpdate struct {
	Name     *string
	Type     *models.GuitarType
	Notes    *string
	ImageURL *string
}

func (u GuitarUpdate) Empty() bool {
	return u.Name == nil && u.Type == nil && u.Notes == nil && u.ImageURL == nil
}

// NewFile is the metadata written after the blob bytes are durably stored.
type NewFile struct {
	SongID       int
	Filename     string
	OriginalName string
	FileType     string
	FilePath     string
	FileSize     int64
}

type SongStore interface {
	Create(song NewSong) (int, error)
	Get(id int) (*models.Song, error)
	List(opts ListOptions) ([]models.Song, error)
	Search(query string, readiness *models.Readiness) ([]models.Song, error)
	Update(id int, update SongUpdate) error
	MarkPlayed(id int) (*models.Song, error)
	// Delete removes the song row and its file rows in one transaction and
	// returns the removed file metadata so the caller can drop the blobs.
	Delete(id int) ([]models.FileRecord, error)
}

type GuitarStore interface {
	Create(guitar NewGuitar) (int, error)
	Get(id int) (*models.Guitar, error)
	List() ([]models.Guitar, error)
	Search(query string) ([]models.Guitar, error)
	Update(id int, update GuitarUpdate) error
	Delete(id int) error
}

type FileStore interface {
	Create(file NewFile) (int, error)
	Get(id int) (*models.FileRecord, error)
	ListBySong(songID int) ([]models.FileRecord, error)
	Delete(id int) error
}
