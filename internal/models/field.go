package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Field is a registered farm field. Boundary, when present, is the GeoJSON
// polygon the rainfall footprint is derived from; otherwise the point plus
// buffer radius is used.
type Field struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Latitude   float64         `json:"latitude" db:"latitude"`
	Longitude  float64         `json:"longitude" db:"longitude"`
	AreaHa     float64         `json:"area_ha" db:"area_ha"`
	Crop       *string         `json:"crop,omitempty" db:"crop"`
	Zone       *string         `json:"zone,omitempty" db:"zone"`
	Boundary   json.RawMessage `json:"boundary,omitempty" db:"boundary"`
	OwnerName  *string         `json:"owner_name,omitempty" db:"owner_name"`
	SoilType   *string         `json:"soil_type,omitempty" db:"soil_type"`
	ElevationM *float64        `json:"elevation_m,omitempty" db:"elevation_m"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
