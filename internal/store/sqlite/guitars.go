package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Guitars implements store.GuitarStore over the embedded database.
type Guitars struct {
	db *sql.DB
}

func NewGuitars(db *sql.DB) *Guitars {
	return &Guitars{db: db}
}

const guitarColumns = `id, name, type, notes, image_url, created_at`

func scanGuitar(r row) (*models.Guitar, error) {
	var guitar models.Guitar
	var notes, imageURL sql.NullString

	err := r.Scan(&guitar.ID, &guitar.Name, &guitar.Type, &notes, &imageURL, &guitar.CreatedAt)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		guitar.Notes = &notes.String
	}
	if imageURL.Valid {
		guitar.ImageURL = &imageURL.String
	}
	return &guitar, nil
}

func collectGuitars(rows *sql.Rows) ([]models.Guitar, error) {
	defer rows.Close()

	guitars := []models.Guitar{}
	for rows.Next() {
		guitar, err := scanGuitar(rows)
		if err != nil {
			return nil, err
		}
		guitars = append(guitars, *guitar)
	}
	return guitars, rows.Err()
}

func (g *Guitars) Create(guitar store.NewGuitar) (int, error) {
	result, err := g.db.Exec(
		`INSERT INTO guitars (name, type, notes, image_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		guitar.Name, string(guitar.Type), guitar.Notes, guitar.ImageURL, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("error creating guitar: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading created guitar id: %w", err)
	}
	return int(id), nil
}

func (g *Guitars) Get(id int) (*models.Guitar, error) {
	query := `SELECT ` + guitarColumns + ` FROM guitars WHERE id = ?`

	guitar, err := scanGuitar(g.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting guitar: %w", err)
	}
	return guitar, nil
}

func (g *Guitars) List() ([]models.Guitar, error) {
	rows, err := g.db.Query(`SELECT ` + guitarColumns + ` FROM guitars ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing guitars: %w", err)
	}
	return collectGuitars(rows)
}

func (g *Guitars) Search(query string) ([]models.Guitar, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := g.db.Query(
		`SELECT `+guitarColumns+` FROM guitars
		 WHERE lower(name) LIKE ?
		    OR lower(type) LIKE ?
		    OR lower(COALESCE(notes, '')) LIKE ?
		 ORDER BY name ASC`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("error searching guitars: %w", err)
	}
	return collectGuitars(rows)
}

func (g *Guitars) Update(id int, update store.GuitarUpdate) error {
	if update.Empty() {
		return nil
	}

	builder := store.NewUpdateBuilder(store.DialectSQLite)
	if update.Name != nil {
		builder.Set("name", *update.Name)
	}
	if update.Type != nil {
		builder.Set("type", string(*update.Type))
	}
	if update.Notes != nil {
		builder.Set("notes", *update.Notes)
	}
	if update.ImageURL != nil {
		builder.Set("image_url", *update.ImageURL)
	}

	query, args := builder.Build("guitars", id)
	if _, err := g.db.Exec(query, args...); err != nil {
		return fmt.Errorf("error updating guitar %d: %w", id, err)
	}
	return nil
}

// Delete removes only the catalog entry; songs keep their guitar_id. The
// reference is a soft link with no integrity action.
func (g *Guitars) Delete(id int) error {
	if _, err := g.db.Exec(`DELETE FROM guitars WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting guitar %d: %w", id, err)
	}
	return nil
}
