package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quote-service/internal/config"
	"quote-service/internal/crops"
	"quote-service/internal/models"
	"quote-service/internal/rainfall"
)

// Summarizer produces an optional plain-language executive summary for a
// finished quote. Failures are non-fatal; the quote ships without one.
type Summarizer interface {
	Summarize(ctx context.Context, quote *models.Quote) (string, error)
}

// QuoteService orchestrates the full pricing pipeline: request validation,
// per-year planting detection, batched phase rainfall aggregation, drought
// stress analysis, and the two-pass rate derivation and replay. Each request
// is independent and stateless; nothing derived is shared across requests.
type QuoteService struct {
	cfg        config.EngineConfig
	registry   *crops.Registry
	source     rainfall.Source
	detector   *PlantingDetector
	aggregator *PhaseAggregator
	calculator *DroughtCalculator
	rateEngine *RateEngine
	summarizer Summarizer
	logger     *slog.Logger
}

func NewQuoteService(cfg config.EngineConfig, registry *crops.Registry, source rainfall.Source, summarizer Summarizer, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		cfg:        cfg,
		registry:   registry,
		source:     source,
		detector:   NewPlantingDetector(cfg),
		aggregator: NewPhaseAggregator(),
		calculator: NewDroughtCalculator(cfg, nil),
		rateEngine: NewRateEngine(cfg),
		summarizer: summarizer,
		logger:     logger,
	}
}

// Execute runs the whole pipeline for one request. On failure the error names
// the stage that failed; a partially built quote is never returned.
func (s *QuoteService) Execute(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("validation stage: %w", err)
	}

	crop, err := s.registry.ValidateCrop(req.Crop)
	if err != nil {
		return nil, fmt.Errorf("validation stage: %w", err)
	}

	zoneID := req.Zone
	if zoneID == "" || zoneID == "auto_detect" {
		zoneID = s.registry.DetectZoneFromLatitude(req.Latitude)
		s.logger.Info("auto-detected agro-ecological zone",
			"latitude", req.Latitude, "zone", zoneID)
	}
	zone := s.registry.ZoneFor(zoneID)

	phenology, err := s.registry.PhenologyFor(crop)
	if err != nil {
		return nil, fmt.Errorf("validation stage: %w", err)
	}
	weights, err := s.registry.PhaseWeightsFor(crop, zone.ID)
	if err != nil {
		return nil, fmt.Errorf("validation stage: %w", err)
	}

	targetYear := req.TargetYear
	if targetYear == 0 {
		targetYear = time.Now().Year()
	}
	years := s.historicalYears(targetYear)

	location := models.Location{
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		BufferRadiusM: req.BufferRadiusM,
	}

	s.logger.Info("starting quote computation",
		"crop", crop, "zone", zone.ID, "target_year", targetYear,
		"historical_years", len(years), "stress_model", s.cfg.StressModel)

	detections, skipped, err := s.detectPlantingDates(ctx, location, phenology, years)
	if err != nil {
		return nil, fmt.Errorf("planting detection stage: %w", err)
	}
	if len(detections) < s.cfg.RegulatoryMinYears {
		return nil, fmt.Errorf("planting detection stage: %w", &models.InsufficientDataError{
			YearsAvailable:  len(detections),
			MinimumRequired: s.cfg.RegulatoryMinYears,
		})
	}

	// One batched call covering every detected year's phase windows.
	windows := s.aggregator.WindowsForYears(detections, phenology.Phases)
	totals, err := s.source.FetchPhaseTotals(ctx, location, windows)
	if err != nil {
		return nil, fmt.Errorf("phase aggregation stage: %w", err)
	}

	results := make([]models.YearStressResult, 0, len(detections))
	for _, det := range detections {
		yearTotals, ok := totals[det.Year]
		if !ok {
			skipped[det.Year] = "no phase rainfall returned by upstream"
			continue
		}
		result := s.calculator.AnalyzeSeason(det, phenology.Phases, weights, yearTotals)
		if len(result.MissingPhases) > 0 {
			s.logger.Warn("phases excluded from stress analysis",
				"year", det.Year, "missing_phases", result.MissingPhases)
		}
		results = append(results, result)
	}

	input := PricingInput{
		ExpectedYieldTPerHa: req.ExpectedYieldTPerHa,
		PricePerTonUSD:      req.PricePerTonUSD,
		AreaHa:              1.0,
		DeductibleRate:      s.cfg.DefaultDeductible,
		Loadings:            req.Loadings,
		ZoneRiskMultiplier:  zone.RiskMultiplier,
	}
	if req.AreaHa != nil {
		input.AreaHa = *req.AreaHa
	}
	if req.DeductibleRate != nil {
		input.DeductibleRate = *req.DeductibleRate
	}

	actuarial, err := s.rateEngine.Price(results, input)
	if err != nil {
		return nil, fmt.Errorf("rate derivation stage: %w", err)
	}
	rows, summary := s.rateEngine.Replay(results, actuarial)

	quote := &models.Quote{
		ID:           uuid.New(),
		FieldID:      req.FieldID,
		Crop:         crop,
		ZoneID:       zone.ID,
		ZoneName:     zone.Name,
		TargetYear:   targetYear,
		StressModel:  models.StressModel(s.cfg.StressModel),
		Actuarial:    actuarial,
		YearResults:  results,
		Simulation:   rows,
		Summary:      summary,
		YearsSkipped: skipped,
		CreatedAt:    time.Now().UTC(),
	}

	if s.summarizer != nil {
		text, err := s.summarizer.Summarize(ctx, quote)
		if err != nil {
			s.logger.Warn("executive summary generation failed", "quote_id", quote.ID, "error", err)
		} else {
			quote.ExecutiveSummary = &text
		}
	}

	s.logger.Info("quote computed",
		"quote_id", quote.ID, "premium_rate", actuarial.PremiumRate,
		"years_analyzed", actuarial.HistoricalYearsAnalyzed,
		"meets_actuarial_standard", actuarial.MeetsActuarialStandard)
	return quote, nil
}

// historicalYears lists seasons from the target year backwards, newest last,
// capped at the optimal window and bounded by the archive's earliest year.
func (s *QuoteService) historicalYears(targetYear int) []int {
	end := targetYear - 1
	start := targetYear - s.cfg.OptimalWindowYears
	if start < s.cfg.EarliestDataYear {
		start = s.cfg.EarliestDataYear
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// detectPlantingDates fetches each season's search-window series and scans it
// for the planting trigger, fanned out across years. The first fetch failure
// cancels the remaining fetches: a quote with holes in its history punched by
// upstream failures would misprice, so the whole stage fails instead.
func (s *QuoteService) detectPlantingDates(ctx context.Context, location models.Location, phenology models.CropPhenology, years []int) ([]models.PlantingDetection, map[int]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		detections []models.PlantingDetection
		skipped    = map[int]string{}
		fetchErr   error
	)

	for _, year := range years {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()

			searchWindow, err := seasonSearchWindow(year, phenology)
			if err != nil {
				mu.Lock()
				defer mu.Unlock()
				if fetchErr == nil {
					fetchErr = err
					cancel()
				}
				return
			}

			series, err := s.source.FetchDaily(ctx, location, searchWindow)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = err
					cancel()
				}
				return
			}

			det := s.detector.Detect(year, series)
			if det.Detected {
				detections = append(detections, det)
			} else {
				skipped[year] = det.Reason
			}
		}(year)
	}
	wg.Wait()

	if fetchErr != nil {
		return nil, nil, fetchErr
	}

	sort.Slice(detections, func(i, j int) bool { return detections[i].Year < detections[j].Year })
	return detections, skipped, nil
}

// seasonSearchWindow resolves a crop's configured month-day search bounds for
// one season year. An end month-day earlier in the calendar than the start
// rolls over into the next year, covering the October-to-January wet season.
func seasonSearchWindow(year int, phenology models.CropPhenology) (models.DateRange, error) {
	start, err := time.Parse("2006-01-02", fmt.Sprintf("%d-%s", year, phenology.SearchStartMonthDay))
	if err != nil {
		return models.DateRange{}, &models.ComputationError{
			Stage:   "search_window",
			Message: fmt.Sprintf("bad search start %q for crop %s", phenology.SearchStartMonthDay, phenology.Crop),
		}
	}
	end, err := time.Parse("2006-01-02", fmt.Sprintf("%d-%s", year, phenology.SearchEndMonthDay))
	if err != nil {
		return models.DateRange{}, &models.ComputationError{
			Stage:   "search_window",
			Message: fmt.Sprintf("bad search end %q for crop %s", phenology.SearchEndMonthDay, phenology.Crop),
		}
	}
	if !end.After(start) {
		end = end.AddDate(1, 0, 0)
	}
	return models.DateRange{Start: start, End: end}, nil
}

func validateRequest(req models.QuoteRequest) error {
	if req.Latitude < -90 || req.Latitude > 90 {
		return &models.ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return &models.ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	if req.ExpectedYieldTPerHa <= 0 {
		return &models.ValidationError{Field: "expected_yield", Message: "must be positive"}
	}
	if req.PricePerTonUSD <= 0 {
		return &models.ValidationError{Field: "price_per_ton", Message: "must be positive"}
	}
	if req.AreaHa != nil && *req.AreaHa <= 0 {
		return &models.ValidationError{Field: "area_ha", Message: "must be positive"}
	}
	if req.DeductibleRate != nil && (*req.DeductibleRate < 0 || *req.DeductibleRate > 1) {
		return &models.ValidationError{Field: "deductible_rate", Message: "must be between 0 and 1"}
	}
	if req.BufferRadiusM < 0 {
		return &models.ValidationError{Field: "buffer_radius_m", Message: "must not be negative"}
	}
	for name, rate := range req.Loadings {
		if rate < 0 || rate > 1 {
			return &models.ValidationError{
				Field:   "loadings." + name,
				Message: "must be between 0 and 1",
			}
		}
	}
	return nil
}
