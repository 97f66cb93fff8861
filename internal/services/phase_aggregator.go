package services

import (
	"time"

	"quote-service/internal/models"
)

// PhaseAggregator maps a crop's relative phase schedule onto calendar windows
// anchored at a planting date, and folds rainfall into per-phase totals.
type PhaseAggregator struct{}

func NewPhaseAggregator() *PhaseAggregator {
	return &PhaseAggregator{}
}

// Windows converts day-offset phases into inclusive calendar ranges.
// Day 0 is the planting date itself.
func (a *PhaseAggregator) Windows(plantingDate time.Time, phases []models.Phase) map[string]models.DateRange {
	windows := make(map[string]models.DateRange, len(phases))
	for _, p := range phases {
		windows[p.Name] = models.DateRange{
			Start: plantingDate.AddDate(0, 0, p.StartDay),
			End:   plantingDate.AddDate(0, 0, p.EndDay),
		}
	}
	return windows
}

// WindowsForYears builds the batched fetch request covering every detected
// season. Years without a detected planting date are omitted.
func (a *PhaseAggregator) WindowsForYears(detections []models.PlantingDetection, phases []models.Phase) map[int]map[string]models.DateRange {
	batch := make(map[int]map[string]models.DateRange, len(detections))
	for _, det := range detections {
		if !det.Detected {
			continue
		}
		batch[det.Year] = a.Windows(det.Date, phases)
	}
	return batch
}

// TotalsFromSeries sums a daily series into per-phase totals. Days outside
// every phase window are ignored; a phase entirely outside the series still
// appears with a zero total so callers can distinguish it via coverage.
func (a *PhaseAggregator) TotalsFromSeries(plantingDate time.Time, phases []models.Phase, series []models.DailyRainfall) map[string]float64 {
	totals := make(map[string]float64, len(phases))
	windows := a.Windows(plantingDate, phases)
	for name := range windows {
		totals[name] = 0
	}
	for _, day := range series {
		for name, rng := range windows {
			if !day.Date.Before(rng.Start) && !day.Date.After(rng.End) {
				totals[name] += day.MM
			}
		}
	}
	return totals
}
