package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/models"
)

func yearResults(impacts ...float64) []models.YearStressResult {
	results := make([]models.YearStressResult, len(impacts))
	for i, impact := range impacts {
		year := 2000 + i
		results[i] = models.YearStressResult{
			Year:                 year,
			PlantingDate:         time.Date(year, 11, 15, 0, 0, 0, 0, time.UTC),
			DroughtImpactPercent: impact,
			DominantSignal:       models.SignalCumulative,
		}
	}
	return results
}

func uniformImpacts(n int, impact float64) []float64 {
	impacts := make([]float64, n)
	for i := range impacts {
		impacts[i] = impact
	}
	return impacts
}

func standardInput() PricingInput {
	return PricingInput{
		ExpectedYieldTPerHa: 5,
		PricePerTonUSD:      300,
		AreaHa:              10,
		DeductibleRate:      0.05,
		ZoneRiskMultiplier:  1.0,
	}
}

// ============================================================================
// PASS 1: RATE DERIVATION
// ============================================================================

func TestPrice_BaseCase(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())

	quote, err := e.Price(yearResults(uniformImpacts(20, 10)...), standardInput())
	require.NoError(t, err)

	// 10% mean impact x 1.5 base loading x 1.0 zone = 15% rate.
	assert.InDelta(t, 0.15, quote.PremiumRate, 1e-12)
	assert.InDelta(t, 15000.0, quote.SumInsuredUSD, 1e-9)
	assert.InDelta(t, 2250.0, quote.BurningCostUSD, 1e-9)
	// Default loadings: admin 10% + margin 5% + reinsurance 7.5% of burning cost.
	assert.InDelta(t, 2250*0.225, quote.TotalLoadingsUSD, 1e-9)
	assert.InDelta(t, 2250*1.225, quote.GrossPremiumUSD, 1e-9)
	assert.InDelta(t, 750.0, quote.DeductibleAmountUSD, 1e-9)
	assert.Equal(t, 20, quote.HistoricalYearsAnalyzed)
	assert.True(t, quote.MeetsActuarialStandard)
}

func TestPrice_RateClamping(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())

	t.Run("benign history clamps to minimum", func(t *testing.T) {
		quote, err := e.Price(yearResults(uniformImpacts(20, 0)...), standardInput())
		require.NoError(t, err)
		assert.Equal(t, 0.015, quote.PremiumRate)
	})

	t.Run("catastrophic history clamps to maximum", func(t *testing.T) {
		quote, err := e.Price(yearResults(uniformImpacts(20, 100)...), standardInput())
		require.NoError(t, err)
		assert.Equal(t, 0.25, quote.PremiumRate)
	})
}

func TestPrice_ZoneRiskMultiplier(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	results := yearResults(uniformImpacts(20, 10)...)

	in := standardInput()
	in.ZoneRiskMultiplier = 1.3
	quote, err := e.Price(results, in)
	require.NoError(t, err)

	assert.InDelta(t, 0.1*1.5*1.3, quote.PremiumRate, 1e-12)
	assert.Equal(t, 1.3, quote.ZoneRiskMultiplier)
}

func TestPrice_CustomLoadings(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())

	in := standardInput()
	in.Loadings = map[string]float64{"admin": 0.2}
	quote, err := e.Price(yearResults(uniformImpacts(20, 10)...), in)
	require.NoError(t, err)

	require.Len(t, quote.Loadings, 1)
	assert.InDelta(t, quote.BurningCostUSD*0.2, quote.Loadings["admin"], 1e-9)
	assert.InDelta(t, quote.BurningCostUSD*1.2, quote.GrossPremiumUSD, 1e-9)
}

func TestPrice_ZeroDeductibleIsHonored(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	results := yearResults(uniformImpacts(20, 10)...)

	in := standardInput()
	in.DeductibleRate = 0
	quote, err := e.Price(results, in)
	require.NoError(t, err)

	// An explicit zero deductible is a valid term, not a missing one.
	assert.Equal(t, 0.0, quote.DeductibleRate)
	assert.Equal(t, 0.0, quote.DeductibleAmountUSD)

	rows, _ := e.Replay(results, quote)
	assert.InDelta(t, 10.0, rows[0].ImpactAfterDeductible, 1e-9)
	assert.InDelta(t, quote.SumInsuredUSD*0.10, rows[0].SimulatedPayoutUSD, 1e-9)
}

func TestPrice_DataSufficiencyGate(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())

	t.Run("12 years is a hard failure", func(t *testing.T) {
		_, err := e.Price(yearResults(uniformImpacts(12, 10)...), standardInput())
		var insufficientErr *models.InsufficientDataError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, 12, insufficientErr.YearsAvailable)
		assert.Equal(t, 15, insufficientErr.MinimumRequired)
	})

	t.Run("17 years proceeds flagged", func(t *testing.T) {
		quote, err := e.Price(yearResults(uniformImpacts(17, 10)...), standardInput())
		require.NoError(t, err)
		assert.False(t, quote.MeetsActuarialStandard)
	})

	t.Run("20 years meets the standard", func(t *testing.T) {
		quote, err := e.Price(yearResults(uniformImpacts(20, 10)...), standardInput())
		require.NoError(t, err)
		assert.True(t, quote.MeetsActuarialStandard)
	})
}

func TestPrice_Deterministic(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	results := yearResults(3.7, 12.2, 45.9, 0, 8.8, 21.4, 5.5, 60.1, 2.3, 17.6,
		9.9, 33.3, 4.4, 11.1, 28.2, 6.6, 14.4, 19.8, 7.7, 40.0)

	first, err := e.Price(results, standardInput())
	require.NoError(t, err)
	second, err := e.Price(results, standardInput())
	require.NoError(t, err)

	assert.Equal(t, first.PremiumRate, second.PremiumRate)
	assert.Equal(t, first.GrossPremiumUSD, second.GrossPremiumUSD)
}

// ============================================================================
// PASS 2: HISTORICAL REPLAY
// ============================================================================

func TestReplay_UniformRateInvariant(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	results := yearResults(0, 5, 10, 20, 40, 80, 3, 7, 15, 25,
		60, 2, 9, 12, 18, 30, 45, 6, 11, 22)

	quote, err := e.Price(results, standardInput())
	require.NoError(t, err)
	rows, _ := e.Replay(results, quote)

	require.Len(t, rows, 20)
	for _, row := range rows {
		assert.Equal(t, quote.PremiumRate, row.PremiumRateApplied, "year %d", row.Year)
		assert.Equal(t, quote.GrossPremiumUSD, row.SimulatedPremiumUSD, "year %d", row.Year)
	}
}

func TestReplay_DoesNotFeedBackIntoRate(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	results := yearResults(uniformImpacts(20, 35)...)

	before, err := e.Price(results, standardInput())
	require.NoError(t, err)

	e.Replay(results, before)

	after, err := e.Price(results, standardInput())
	require.NoError(t, err)
	assert.Equal(t, before.PremiumRate, after.PremiumRate)
	assert.Equal(t, before.GrossPremiumUSD, after.GrossPremiumUSD)
}

func TestReplay_DeductibleAppliedPerYear(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	impacts := append(uniformImpacts(18, 0), 3, 25)
	results := yearResults(impacts...)

	quote, err := e.Price(results, standardInput())
	require.NoError(t, err)
	rows, _ := e.Replay(results, quote)

	require.Len(t, rows, 20)
	// 3% impact sits under the 5% deductible: no payout.
	assert.Equal(t, 0.0, rows[18].ImpactAfterDeductible)
	assert.Equal(t, 0.0, rows[18].SimulatedPayoutUSD)
	// 25% impact pays out on 20 points.
	assert.InDelta(t, 20.0, rows[19].ImpactAfterDeductible, 1e-9)
	assert.InDelta(t, quote.SumInsuredUSD*0.20, rows[19].SimulatedPayoutUSD, 1e-9)
	assert.InDelta(t, rows[19].SimulatedPayoutUSD-quote.GrossPremiumUSD, rows[19].NetResultUSD, 1e-9)
}

func TestReplay_SummaryStatistics(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	impacts := append(uniformImpacts(17, 10), 0, 50, 30)
	results := yearResults(impacts...)

	quote, err := e.Price(results, standardInput())
	require.NoError(t, err)
	rows, summary := e.Replay(results, quote)

	assert.Equal(t, 20, summary.YearsSimulated)
	assert.Equal(t, 0.0, summary.MinImpactPercent)
	assert.Equal(t, 50.0, summary.MaxImpactPercent)
	assert.Equal(t, 2017, summary.BestYear)  // first 0% year
	assert.Equal(t, 2018, summary.WorstYear) // the 50% year

	totalPayouts := 0.0
	for _, row := range rows {
		totalPayouts += row.SimulatedPayoutUSD
	}
	assert.InDelta(t, totalPayouts, summary.TotalPayoutsUSD, 1e-9)
	assert.InDelta(t, 20*quote.GrossPremiumUSD, summary.TotalPremiumsUSD, 1e-9)
	assert.InDelta(t, totalPayouts/(20*quote.GrossPremiumUSD), summary.OverallLossRatio, 1e-9)

	// Every year above the deductible pays out: 17 tens plus 50 and 30.
	assert.Equal(t, 19, summary.PayoutYears)
	assert.InDelta(t, 0.95, summary.PayoutFrequency, 1e-9)
}

func TestReplay_RiskCategories(t *testing.T) {
	e := NewRateEngine(defaultEngineConfig())
	impacts := append(uniformImpacts(15, 10), 2, 10, 20, 40, 70)
	results := yearResults(impacts...)

	quote, err := e.Price(results, standardInput())
	require.NoError(t, err)
	rows, _ := e.Replay(results, quote)

	assert.Equal(t, models.RiskMinimal, rows[15].RiskCategory)
	assert.Equal(t, models.RiskLow, rows[16].RiskCategory)
	assert.Equal(t, models.RiskModerate, rows[17].RiskCategory)
	assert.Equal(t, models.RiskHigh, rows[18].RiskCategory)
	assert.Equal(t, models.RiskSevere, rows[19].RiskCategory)
}
