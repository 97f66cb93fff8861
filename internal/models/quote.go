package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// STRESS ANALYSIS
// ============================================================================

type StressModel string

const (
	StressModelSimple      StressModel = "simple"
	StressModelMultiSignal StressModel = "multi_signal"
)

// StressSignal names which drought failure mode dominated a season.
type StressSignal string

const (
	SignalNone           StressSignal = "none"
	SignalCumulative     StressSignal = "cumulative"
	SignalRollingWindow  StressSignal = "rolling_window"
	SignalConsecutiveDry StressSignal = "consecutive_dry"
)

// RiskCategory buckets a season impact for underwriter commentary.
type RiskCategory string

const (
	RiskMinimal  RiskCategory = "minimal"
	RiskLow      RiskCategory = "low"
	RiskModerate RiskCategory = "moderate"
	RiskHigh     RiskCategory = "high"
	RiskSevere   RiskCategory = "severe"
)

// CategorizeImpact maps a 0-100 season impact onto a risk category.
func CategorizeImpact(impactPercent float64) RiskCategory {
	switch {
	case impactPercent < 5:
		return RiskMinimal
	case impactPercent < 15:
		return RiskLow
	case impactPercent < 30:
		return RiskModerate
	case impactPercent < 50:
		return RiskHigh
	default:
		return RiskSevere
	}
}

// PhaseStress is the per-phase breakdown of one season's drought analysis.
type PhaseStress struct {
	PhaseName             string  `json:"phase_name"`
	PhaseNumber           int     `json:"phase_number"`
	RainfallMM            float64 `json:"rainfall_mm"`
	WaterNeedMM           float64 `json:"water_need_mm"`
	DeficitMM             float64 `json:"deficit_mm"`
	CumulativeStress      float64 `json:"cumulative_stress"`
	RollingWindowStress   float64 `json:"rolling_window_stress"`
	ConsecutiveDryStress  float64 `json:"consecutive_dry_stress"`
	MaxStress             float64 `json:"max_stress"`
	PhaseWeight           float64 `json:"phase_weight"`
	SensitivityMultiplier float64 `json:"sensitivity_multiplier"`
	WeightedStress        float64 `json:"weighted_stress"`
	DataMissing           bool    `json:"data_missing"`
}

// YearStressResult is the full drought analysis for one successfully-planted
// historical season. Collected in ascending-year order; the ordered list is
// the sole input to rate derivation.
type YearStressResult struct {
	Year                 int                `json:"year"`
	PlantingDate         time.Time          `json:"planting_date"`
	PlantingEvidence     string             `json:"planting_evidence"`
	PhaseRainfallMM      map[string]float64 `json:"rainfall_mm_by_phase"`
	PhaseStresses        []PhaseStress      `json:"phase_stresses"`
	DroughtImpactPercent float64            `json:"drought_impact_percent"`
	DominantSignal       StressSignal       `json:"dominant_signal"`
	CriticalPeriodsCount int                `json:"critical_periods_count"`
	MissingPhases        []string           `json:"missing_phases,omitempty"`
}

// ============================================================================
// ACTUARIAL OUTCOME
// ============================================================================

// ActuarialQuote is the single priced outcome for a request. Computed exactly
// once from the full year list and frozen; the replay never touches it.
type ActuarialQuote struct {
	PremiumRate             float64            `json:"premium_rate"`
	SumInsuredUSD           float64            `json:"sum_insured_usd"`
	BurningCostUSD          float64            `json:"burning_cost_usd"`
	Loadings                map[string]float64 `json:"loadings"`
	TotalLoadingsUSD        float64            `json:"total_loadings_usd"`
	GrossPremiumUSD         float64            `json:"gross_premium_usd"`
	DeductibleRate          float64            `json:"deductible_rate"`
	DeductibleAmountUSD     float64            `json:"deductible_amount_usd"`
	AverageImpactPercent    float64            `json:"average_impact_percent"`
	ZoneRiskMultiplier      float64            `json:"zone_risk_multiplier"`
	HistoricalYearsAnalyzed int                `json:"historical_years_analyzed"`
	MeetsActuarialStandard  bool               `json:"meets_actuarial_standard"`
}

// SimulationRow replays the frozen rate against one historical year.
// PremiumRateApplied and SimulatedPremiumUSD are identical across every row
// of a quote; the tests enforce it.
type SimulationRow struct {
	Year                  int          `json:"year"`
	PlantingDate          string       `json:"planting_date"`
	DroughtImpactPercent  float64      `json:"drought_impact_percent"`
	ImpactAfterDeductible float64      `json:"impact_after_deductible_percent"`
	SimulatedPayoutUSD    float64      `json:"simulated_payout_usd"`
	SimulatedPremiumUSD   float64      `json:"simulated_premium_usd"`
	PremiumRateApplied    float64      `json:"premium_rate_applied"`
	NetResultUSD          float64      `json:"net_result_usd"`
	LossRatio             float64      `json:"loss_ratio"`
	DominantSignal        StressSignal `json:"dominant_signal"`
	RiskCategory          RiskCategory `json:"risk_category"`
}

// SimulationSummary aggregates the replay from the insurer's perspective.
type SimulationSummary struct {
	YearsSimulated       int     `json:"years_simulated"`
	AverageImpactPercent float64 `json:"average_impact_percent"`
	MinImpactPercent     float64 `json:"min_impact_percent"`
	MaxImpactPercent     float64 `json:"max_impact_percent"`
	TotalPayoutsUSD      float64 `json:"total_payouts_usd"`
	TotalPremiumsUSD     float64 `json:"total_premiums_usd"`
	OverallLossRatio     float64 `json:"overall_historical_loss_ratio"`
	PayoutYears          int     `json:"payout_years"`
	PayoutFrequency      float64 `json:"payout_frequency"`
	WorstYear            int     `json:"worst_year"`
	BestYear             int     `json:"best_year"`
}

// QuoteRecord is the persistence shape of a Quote: indexed header columns for
// querying plus the full quote document as JSONB.
type QuoteRecord struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	FieldID                *uuid.UUID `db:"field_id" json:"field_id,omitempty"`
	Crop                   string     `db:"crop" json:"crop"`
	Zone                   string     `db:"zone" json:"zone"`
	TargetYear             int        `db:"target_year" json:"target_year"`
	StressModel            string     `db:"stress_model" json:"stress_model"`
	PremiumRate            float64    `db:"premium_rate" json:"premium_rate"`
	GrossPremiumUSD        float64    `db:"gross_premium_usd" json:"gross_premium_usd"`
	SumInsuredUSD          float64    `db:"sum_insured_usd" json:"sum_insured_usd"`
	MeetsActuarialStandard bool       `db:"meets_actuarial_standard" json:"meets_actuarial_standard"`
	Payload                []byte     `db:"payload" json:"-"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
}

// Quote is the top-level immutable result returned to the caller. Re-running
// the same request produces a new Quote with a new ID.
type Quote struct {
	ID               uuid.UUID          `json:"id"`
	FieldID          *uuid.UUID         `json:"field_id,omitempty"`
	Crop             string             `json:"crop"`
	ZoneID           string             `json:"zone"`
	ZoneName         string             `json:"zone_name"`
	TargetYear       int                `json:"target_year"`
	StressModel      StressModel        `json:"stress_model"`
	Actuarial        ActuarialQuote     `json:"actuarial"`
	YearResults      []YearStressResult `json:"year_results"`
	Simulation       []SimulationRow    `json:"year_by_year_simulation"`
	Summary          SimulationSummary  `json:"simulation_summary"`
	YearsSkipped     map[int]string     `json:"years_skipped,omitempty"`
	ExecutiveSummary *string            `json:"executive_summary,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}
