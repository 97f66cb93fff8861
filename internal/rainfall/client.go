package rainfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quote-service/internal/config"
	"quote-service/internal/models"
)

// Source provides area-averaged daily rainfall from the upstream satellite
// archive. FetchPhaseTotals is the batched path: the engine asks for every
// year's phase windows in one call so upstream can aggregate server-side.
type Source interface {
	FetchDaily(ctx context.Context, loc models.Location, rng models.DateRange) ([]models.DailyRainfall, error)
	FetchPhaseTotals(ctx context.Context, loc models.Location, windows map[int]map[string]models.DateRange) (map[int]map[string]float64, error)
}

// HTTPSource talks to the CHIRPS aggregation API over HTTP with bounded
// retries. Transient failures (network errors, 5xx) are retried with linear
// backoff; 4xx responses fail immediately.
type HTTPSource struct {
	cfg    config.RainfallConfig
	client *http.Client
	logger *slog.Logger
}

func NewHTTPSource(cfg config.RainfallConfig, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger: logger,
	}
}

type dailyResponse struct {
	Data []struct {
		Date       string  `json:"date"`
		RainfallMM float64 `json:"rainfall_mm"`
	} `json:"data"`
}

type phaseTotalsRequest struct {
	Latitude      float64                      `json:"latitude"`
	Longitude     float64                      `json:"longitude"`
	BufferRadiusM float64                      `json:"buffer_radius_m"`
	Windows       map[string]map[string]window `json:"windows"`
}

type window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type phaseTotalsResponse struct {
	Totals map[string]map[string]float64 `json:"totals"`
}

// FetchDaily returns the daily series for one location and date range,
// in ascending date order as provided by upstream.
func (s *HTTPSource) FetchDaily(ctx context.Context, loc models.Location, rng models.DateRange) ([]models.DailyRainfall, error) {
	url := fmt.Sprintf("%s/daily?lat=%f&lon=%f&buffer_m=%f&start=%s&end=%s",
		s.cfg.BaseURL, loc.Latitude, loc.Longitude, loc.BufferRadiusM,
		rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))

	body, err := s.doWithRetry(ctx, "fetch_daily", http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.UpstreamFetchError{Operation: "fetch_daily", Attempts: 1,
			Err: fmt.Errorf("failed to parse daily response: %w", err)}
	}

	series := make([]models.DailyRainfall, 0, len(resp.Data))
	for _, d := range resp.Data {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, &models.UpstreamFetchError{Operation: "fetch_daily", Attempts: 1,
				Err: fmt.Errorf("bad date %q in daily response: %w", d.Date, err)}
		}
		series = append(series, models.DailyRainfall{Date: date, MM: d.RainfallMM})
	}
	return series, nil
}

// FetchPhaseTotals sends every year's phase windows as one batched request and
// returns cumulative millimetres keyed by year then phase name.
func (s *HTTPSource) FetchPhaseTotals(ctx context.Context, loc models.Location, windows map[int]map[string]models.DateRange) (map[int]map[string]float64, error) {
	req := phaseTotalsRequest{
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		BufferRadiusM: loc.BufferRadiusM,
		Windows:       make(map[string]map[string]window, len(windows)),
	}
	for year, phases := range windows {
		yearKey := fmt.Sprintf("%d", year)
		req.Windows[yearKey] = make(map[string]window, len(phases))
		for name, rng := range phases {
			req.Windows[yearKey][name] = window{
				Start: rng.Start.Format("2006-01-02"),
				End:   rng.End.Format("2006-01-02"),
			}
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &models.UpstreamFetchError{Operation: "fetch_phase_totals", Attempts: 0,
			Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := s.cfg.BaseURL + "/phase-totals"
	body, err := s.doWithRetry(ctx, "fetch_phase_totals", http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}

	var resp phaseTotalsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.UpstreamFetchError{Operation: "fetch_phase_totals", Attempts: 1,
			Err: fmt.Errorf("failed to parse totals response: %w", err)}
	}

	totals := make(map[int]map[string]float64, len(resp.Totals))
	for yearKey, phases := range resp.Totals {
		var year int
		if _, err := fmt.Sscanf(yearKey, "%d", &year); err != nil {
			return nil, &models.UpstreamFetchError{Operation: "fetch_phase_totals", Attempts: 1,
				Err: fmt.Errorf("bad year key %q in totals response", yearKey)}
		}
		totals[year] = phases
	}
	return totals, nil
}

func (s *HTTPSource) doWithRetry(ctx context.Context, operation, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		attempts = attempt
		body, retryable, err := s.doOnce(ctx, method, url, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		s.logger.Warn("upstream rainfall request failed, retrying",
			"operation", operation, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, &models.UpstreamFetchError{Operation: operation, Attempts: attempts, Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, &models.UpstreamFetchError{Operation: operation, Attempts: attempts, Err: lastErr}
}

// doOnce runs a single HTTP exchange. The second return reports whether the
// failure is worth retrying.
func (s *HTTPSource) doOnce(ctx context.Context, method, url string, payload []byte) ([]byte, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}
	return body, false, nil
}
