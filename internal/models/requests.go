package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// QuoteRequest is the inbound shape for both sync and async quote endpoints.
// Latitude/longitude are required unless a field_id resolves them.
type QuoteRequest struct {
	FieldID             *uuid.UUID         `json:"field_id,omitempty"`
	Latitude            float64            `json:"latitude"`
	Longitude           float64            `json:"longitude"`
	BufferRadiusM       float64            `json:"buffer_radius_m,omitempty"`
	Crop                string             `json:"crop"`
	Zone                string             `json:"zone,omitempty"`
	TargetYear          int                `json:"target_year,omitempty"`
	ExpectedYieldTPerHa float64            `json:"expected_yield"`
	PricePerTonUSD      float64            `json:"price_per_ton"`
	AreaHa              *float64           `json:"area_ha,omitempty"`
	DeductibleRate      *float64           `json:"deductible_rate,omitempty"`
	Loadings            map[string]float64 `json:"loadings,omitempty"`
}

// FieldRequest creates or updates a registered field. Boundary is optional
// GeoJSON; when present it overrides area_ha and the point location.
type FieldRequest struct {
	Name      string          `json:"name"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	AreaHa    float64         `json:"area_ha"`
	Crop      *string         `json:"crop,omitempty"`
	Zone      *string         `json:"zone,omitempty"`
	Boundary  json.RawMessage `json:"boundary,omitempty"`
	OwnerName *string         `json:"owner_name,omitempty"`
	SoilType  *string         `json:"soil_type,omitempty"`
	Elevation *float64        `json:"elevation_m,omitempty"`
}
