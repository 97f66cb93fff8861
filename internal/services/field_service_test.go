package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/models"
)

// A roughly 111m x 111m square near Kwekwe (0.001 degrees per side).
const squareBoundary = `{
	"type": "Polygon",
	"coordinates": [[
		[30.000, -19.000],
		[30.001, -19.000],
		[30.001, -18.999],
		[30.000, -18.999],
		[30.000, -19.000]
	]]
}`

func TestPolygonSummary_SquareField(t *testing.T) {
	lat, lon, areaHa, err := polygonSummary(json.RawMessage(squareBoundary))
	require.NoError(t, err)

	assert.InDelta(t, -18.9995, lat, 1e-6)
	assert.InDelta(t, 30.0005, lon, 1e-6)
	// 0.001 deg x 0.001 deg at ~19 degrees south is about 1.17 ha.
	assert.InDelta(t, 1.1717, areaHa, 0.001)
}

func TestPolygonSummary_RejectsNonPolygon(t *testing.T) {
	point := json.RawMessage(`{"type": "Point", "coordinates": [30.0, -19.0]}`)
	_, _, _, err := polygonSummary(point)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Polygon")
}

func TestPolygonSummary_RejectsGarbage(t *testing.T) {
	_, _, _, err := polygonSummary(json.RawMessage(`{"not": "geojson"}`))
	require.Error(t, err)
}

func TestFieldFromRequest_DerivesFromBoundary(t *testing.T) {
	field, err := fieldFromRequest(models.FieldRequest{
		Name:      "Block A",
		Latitude:  0, // overridden by the boundary centroid
		Longitude: 0,
		Boundary:  json.RawMessage(squareBoundary),
	})
	require.NoError(t, err)

	assert.InDelta(t, -18.9995, field.Latitude, 1e-6)
	assert.InDelta(t, 30.0005, field.Longitude, 1e-6)
	assert.Greater(t, field.AreaHa, 1.0)
}

func TestFieldFromRequest_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.FieldRequest
		field string
	}{
		{
			name:  "missing name",
			req:   models.FieldRequest{Latitude: -19, Longitude: 30, AreaHa: 2},
			field: "name",
		},
		{
			name:  "latitude out of range",
			req:   models.FieldRequest{Name: "f", Latitude: 95, Longitude: 30, AreaHa: 2},
			field: "latitude",
		},
		{
			name:  "longitude out of range",
			req:   models.FieldRequest{Name: "f", Latitude: -19, Longitude: 400, AreaHa: 2},
			field: "longitude",
		},
		{
			name:  "zero area without boundary",
			req:   models.FieldRequest{Name: "f", Latitude: -19, Longitude: 30},
			field: "area_ha",
		},
		{
			name:  "broken boundary",
			req:   models.FieldRequest{Name: "f", Boundary: json.RawMessage(`{"type":"Point","coordinates":[1,2]}`)},
			field: "boundary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fieldFromRequest(tt.req)
			require.Error(t, err)

			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}
