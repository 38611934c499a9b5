package store

import (
	"github.com/wolfleithold/guitar-harmony/internal/models"
)

// SeedGuitar is one entry of the fixed reference catalog inserted when the
// guitars table is empty. Seeding never re-runs once any guitar exists.
type SeedGuitar struct {
	Name  string
	Type  models.GuitarType
	Notes string
}

var SeedGuitars = []SeedGuitar{
	{Name: "Martin D-28", Type: models.GuitarAcoustic, Notes: "Classic dreadnought, great for strumming"},
	{Name: "Taylor 814ce", Type: models.GuitarAcoustic, Notes: "Cutaway acoustic-electric"},
	{Name: "Gibson J-45", Type: models.GuitarAcoustic, Notes: "Vintage round shoulder"},
	{Name: "Fender Stratocaster", Type: models.GuitarElectric, Notes: "Versatile solid body"},
	{Name: "Gibson Les Paul", Type: models.GuitarElectric, Notes: "Classic rock tone"},
	{Name: "Fender Telecaster", Type: models.GuitarElectric, Notes: "Country and rock"},
	{Name: "PRS Custom 24", Type: models.GuitarElectric, Notes: "Modern versatile electric"},
	{Name: "Ibanez RG", Type: models.GuitarElectric, Notes: "Fast neck, great for shred"},
	{Name: "Fender Precision Bass", Type: models.GuitarBass, Notes: "Classic P-Bass"},
	{Name: "Music Man StingRay", Type: models.GuitarBass, Notes: "Punchy active bass"},
	{Name: "Fender Jazz Bass", Type: models.GuitarBass, Notes: "Versatile J-Bass"},
	{Name: "Classical Nylon", Type: models.GuitarAcoustic, Notes: "Nylon string classical"},
	{Name: "12-String Acoustic", Type: models.GuitarAcoustic, Notes: "Rich, full sound"},
	{Name: "Resonator Guitar", Type: models.GuitarOther, Notes: "Bluegrass and slide"},
}
