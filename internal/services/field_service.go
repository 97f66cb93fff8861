package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"quote-service/internal/models"
	"quote-service/internal/repository"
)

// FieldService manages registered farm fields. When a request carries a
// GeoJSON boundary, the field's location and area are derived from the
// polygon rather than trusted from the flat fields.
type FieldService struct {
	repo *repository.FieldRepository
}

func NewFieldService(repo *repository.FieldRepository) *FieldService {
	return &FieldService{repo: repo}
}

func (s *FieldService) Create(ctx context.Context, req models.FieldRequest) (*models.Field, error) {
	field, err := fieldFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *FieldService) Get(ctx context.Context, id uuid.UUID) (*models.Field, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FieldService) Update(ctx context.Context, id uuid.UUID, req models.FieldRequest) (*models.Field, error) {
	field, err := fieldFromRequest(req)
	if err != nil {
		return nil, err
	}
	field.ID = id
	if err := s.repo.Update(ctx, field); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *FieldService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *FieldService) List(ctx context.Context, limit, offset int) ([]models.Field, error) {
	return s.repo.List(ctx, limit, offset)
}

func fieldFromRequest(req models.FieldRequest) (*models.Field, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "must not be empty"}
	}

	field := &models.Field{
		Name:       req.Name,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		AreaHa:     req.AreaHa,
		Crop:       req.Crop,
		Zone:       req.Zone,
		Boundary:   req.Boundary,
		OwnerName:  req.OwnerName,
		SoilType:   req.SoilType,
		ElevationM: req.Elevation,
	}

	if len(req.Boundary) > 0 {
		lat, lon, areaHa, err := polygonSummary(req.Boundary)
		if err != nil {
			return nil, &models.ValidationError{Field: "boundary", Message: err.Error()}
		}
		field.Latitude = lat
		field.Longitude = lon
		field.AreaHa = areaHa
	}

	if field.Latitude < -90 || field.Latitude > 90 {
		return nil, &models.ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if field.Longitude < -180 || field.Longitude > 180 {
		return nil, &models.ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	if field.AreaHa <= 0 {
		return nil, &models.ValidationError{Field: "area_ha", Message: "must be positive"}
	}
	return field, nil
}

// polygonSummary derives the centroid (as lat/lon) and an approximate area in
// hectares from a GeoJSON polygon boundary. Area uses a planar shoelace over
// the outer ring with a cos(latitude) meridian correction, which is accurate
// to well under a percent at field scale.
func polygonSummary(boundary json.RawMessage) (lat, lon, areaHa float64, err error) {
	var geometry geom.T
	if err := geomjson.Unmarshal(boundary, &geometry); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid GeoJSON: %v", err)
	}
	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return 0, 0, 0, fmt.Errorf("boundary must be a Polygon, got %T", geometry)
	}

	ring := polygon.LinearRing(0)
	coords := ring.Coords()
	if len(coords) < 4 {
		return 0, 0, 0, fmt.Errorf("polygon ring needs at least 4 coordinates")
	}

	// Shoelace in degrees over the closed outer ring. GeoJSON order: [lon, lat].
	areaDeg := 0.0
	sumLon, sumLat := 0.0, 0.0
	n := len(coords) - 1 // last vertex repeats the first
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		areaDeg += coords[i][0]*coords[j][1] - coords[j][0]*coords[i][1]
		sumLon += coords[i][0]
		sumLat += coords[i][1]
	}
	areaDeg = math.Abs(areaDeg) / 2
	lon = sumLon / float64(n)
	lat = sumLat / float64(n)

	const metersPerDegree = 111320.0
	areaM2 := areaDeg * metersPerDegree * metersPerDegree * math.Cos(lat*math.Pi/180)
	return lat, lon, areaM2 / 10000, nil
}
