package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

// Guitars implements store.GuitarStore over PostgreSQL.
type Guitars struct {
	db *sql.DB
}

func NewGuitars(db *sql.DB) *Guitars {
	return &Guitars{db: db}
}

const guitarColumns = `id, name, type, notes, image_url, created_at`

func scanGuitar(row songRow) (*models.Guitar, error) {
	var guitar models.Guitar
	var notes, imageURL sql.NullString

	err := row.Scan(&guitar.ID, &guitar.Name, &guitar.Type, &notes, &imageURL, &guitar.CreatedAt)
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
	query := `
		INSERT INTO guitars (name, type, notes, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int
	err := g.db.QueryRow(query, guitar.Name, guitar.Type, guitar.Notes, guitar.ImageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating guitar: %w", err)
	}
	return id, nil
}

func (g *Guitars) Get(id int) (*models.Guitar, error) {
	query := `SELECT ` + guitarColumns + ` FROM guitars WHERE id = $1`

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
		 WHERE lower(name) LIKE $1
		    OR lower(type) LIKE $1
		    OR lower(COALESCE(notes, '')) LIKE $1
		 ORDER BY name ASC`,
		pattern,
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

	builder := store.NewUpdateBuilder(store.DialectPostgres)
	if update.Name != nil {
		builder.Set("name", *update.Name)
	}
	if update.Type != nil {
		builder.Set("type", *update.Type)
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

// Delete removes only the catalog entry. Songs referencing it keep their
// guitar_id; the reference is a soft link with no integrity action.
func (g *Guitars) Delete(id int) error {
	if _, err := g.db.Exec(`DELETE FROM guitars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting guitar %d: %w", id, err)
	}
	return nil
}
