package models

// ============================================================================
// CROP PHENOLOGY REFERENCE DATA
// ============================================================================

// Phase is one phenological sub-period of a crop season. Day offsets are
// relative to planting day 0, inclusive on both ends.
type Phase struct {
	StartDay              int     `json:"start_day"`
	EndDay                int     `json:"end_day"`
	TriggerMM             float64 `json:"trigger_mm"`
	ExitMM                float64 `json:"exit_mm"`
	Name                  string  `json:"name"`
	WaterNeedMM           float64 `json:"water_need_mm"`
	ObservationWindowDays int     `json:"observation_window_days"`
}

// DurationDays returns the inclusive length of the phase.
func (p Phase) DurationDays() int {
	return p.EndDay - p.StartDay + 1
}

// KcValues are descriptive FAO-56 crop coefficients per season stage.
type KcValues struct {
	Initial float64 `json:"initial"`
	Mid     float64 `json:"mid"`
	Late    float64 `json:"late"`
}

// CropPhenology is the full immutable schedule for one crop. Phases are
// contiguous, non-overlapping, start at day 0 and end at TotalSeasonDays;
// base weights sum to 1.0. The registry validates both at construction.
type CropPhenology struct {
	Crop                    string    `json:"crop"`
	Phases                  []Phase   `json:"phases"`
	PhaseWeights            []float64 `json:"phase_weights"`
	Kc                      KcValues  `json:"kc_values"`
	TotalSeasonDays         int       `json:"total_season_days"`
	DefaultPlantingMonthDay string    `json:"default_planting_date"`
	// Seasonal search bounds for planting detection, "MM-DD". The end month
	// rolling past December into the next calendar year is expected.
	SearchStartMonthDay string `json:"search_start"`
	SearchEndMonthDay   string `json:"search_end"`
	Description         string `json:"description"`
}

// Zone is an agro-ecological zone adjustment: a per-phase weight multiplier
// plus a scalar risk multiplier applied uniformly to the aggregate rate.
type Zone struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	PhaseWeightAdjustments []float64 `json:"phase_weight_adjustments"`
	RiskMultiplier         float64   `json:"risk_multiplier"`
	PrimaryRisk            string    `json:"primary_risk"`
	AnnualRainfallRange    string    `json:"annual_rainfall_range"`
	Description            string    `json:"description"`
}
