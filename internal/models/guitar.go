package models

import (
	"time"
)

// GuitarType is the instrument category.
type GuitarType string

const (
	GuitarAcoustic GuitarType = "Acoustic"
	GuitarElectric GuitarType = "Electric"
	GuitarBass     GuitarType = "Bass"
	GuitarOther    GuitarType = "Other"
)

// ValidGuitarType reports whether s is a known instrument category.
func ValidGuitarType(s string) bool {
	switch GuitarType(s) {
	case GuitarAcoustic, GuitarElectric, GuitarBass, GuitarOther:
		return true
	}
	return false
}

type Guitar struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Type      GuitarType `json:"type" db:"type"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	ImageURL  *string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
