package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quote-service/internal/models"
)

// FieldRepository manages registered farm fields.
type FieldRepository struct {
	db *sqlx.DB
}

func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, field *models.Field) error {
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	now := time.Now().UTC()
	if field.CreatedAt.IsZero() {
		field.CreatedAt = now
	}
	field.UpdatedAt = now

	query := `
		INSERT INTO fields (
			id, name, latitude, longitude, area_ha, crop, zone,
			boundary, owner_name, soil_type, elevation_m, created_at, updated_at
		) VALUES (
			:id, :name, :latitude, :longitude, :area_ha, :crop, :zone,
			:boundary, :owner_name, :soil_type, :elevation_m, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, field); err != nil {
		return fmt.Errorf("failed to insert field: %w", err)
	}
	return nil
}

func (r *FieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Field, error) {
	var field models.Field
	query := `
		SELECT id, name, latitude, longitude, area_ha, crop, zone,
			boundary, owner_name, soil_type, elevation_m, created_at, updated_at
		FROM fields
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &field, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get field by id: %w", err)
	}
	return &field, nil
}

func (r *FieldRepository) Update(ctx context.Context, field *models.Field) error {
	field.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE fields SET
			name = :name,
			latitude = :latitude,
			longitude = :longitude,
			area_ha = :area_ha,
			crop = :crop,
			zone = :zone,
			boundary = :boundary,
			owner_name = :owner_name,
			soil_type = :soil_type,
			elevation_m = :elevation_m,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, field)
	if err != nil {
		return fmt.Errorf("failed to update field: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FieldRepository) List(ctx context.Context, limit, offset int) ([]models.Field, error) {
	if limit <= 0 {
		limit = 50
	}
	var fields []models.Field
	query := `
		SELECT id, name, latitude, longitude, area_ha, crop, zone,
			boundary, owner_name, soil_type, elevation_m, created_at, updated_at
		FROM fields
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &fields, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return fields, nil
}
