package models

import (
	"time"
)

// Readiness is the lifecycle stage of a song.
type Readiness string

const (
	ReadinessIdea     Readiness = "Idea"
	ReadinessWriting  Readiness = "Writing"
	ReadinessPractice Readiness = "Practice"
	ReadinessGigReady Readiness = "GigReady"
	ReadinessArchived Readiness = "Archived"
)

// ValidReadiness reports whether s is one of the five known stages.
func ValidReadiness(s string) bool {
	switch Readiness(s) {
	case ReadinessIdea, ReadinessWriting, ReadinessPractice, ReadinessGigReady, ReadinessArchived:
		return true
	}
	return false
}

type Song struct {
	ID           int        `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Lyrics       string     `json:"lyrics" db:"lyrics"`
	Key          string     `json:"key" db:"key"`
	Guitar       string     `json:"guitar" db:"guitar"`
	GuitarID     *int       `json:"guitar_id,omitempty" db:"guitar_id"`
	Readiness    Readiness  `json:"readiness" db:"readiness"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty" db:"last_played_at"`
	PlayCount    int        `json:"play_count" db:"play_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// GuitarInfo is the joined catalog entry when guitar_id is set.
	GuitarInfo *Guitar `json:"guitarInfo,omitempty" db:"-"`
}
