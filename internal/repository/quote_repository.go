package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quote-service/internal/models"
)

var ErrNotFound = errors.New("not found")

// QuoteRepository persists finished quotes. A quote is immutable once saved;
// there is no update path. Callers load only by the opaque id they were given.
type QuoteRepository struct {
	db *sqlx.DB
}

func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Save(ctx context.Context, quote *models.Quote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote payload: %w", err)
	}

	record := models.QuoteRecord{
		ID:                     quote.ID,
		FieldID:                quote.FieldID,
		Crop:                   quote.Crop,
		Zone:                   quote.ZoneID,
		TargetYear:             quote.TargetYear,
		StressModel:            string(quote.StressModel),
		PremiumRate:            quote.Actuarial.PremiumRate,
		GrossPremiumUSD:        quote.Actuarial.GrossPremiumUSD,
		SumInsuredUSD:          quote.Actuarial.SumInsuredUSD,
		MeetsActuarialStandard: quote.Actuarial.MeetsActuarialStandard,
		Payload:                payload,
		CreatedAt:              quote.CreatedAt,
	}

	query := `
		INSERT INTO quotes (
			id, field_id, crop, zone, target_year, stress_model,
			premium_rate, gross_premium_usd, sum_insured_usd,
			meets_actuarial_standard, payload, created_at
		) VALUES (
			:id, :field_id, :crop, :zone, :target_year, :stress_model,
			:premium_rate, :gross_premium_usd, :sum_insured_usd,
			:meets_actuarial_standard, :payload, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var record models.QuoteRecord
	query := `
		SELECT id, field_id, crop, zone, target_year, stress_model,
			premium_rate, gross_premium_usd, sum_insured_usd,
			meets_actuarial_standard, payload, created_at
		FROM quotes
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote by id: %w", err)
	}

	var quote models.Quote
	if err := json.Unmarshal(record.Payload, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote payload: %w", err)
	}
	return &quote, nil
}

// ListByField returns quote headers for one field, newest first.
func (r *QuoteRepository) ListByField(ctx context.Context, fieldID uuid.UUID, limit int) ([]models.QuoteRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.QuoteRecord
	query := `
		SELECT id, field_id, crop, zone, target_year, stress_model,
			premium_rate, gross_premium_usd, sum_insured_usd,
			meets_actuarial_standard, payload, created_at
		FROM quotes
		WHERE field_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &records, query, fieldID, limit); err != nil {
		return nil, fmt.Errorf("failed to list quotes by field: %w", err)
	}
	return records, nil
}
