package services

import (
	"math"

	"quote-service/internal/config"
	"quote-service/internal/models"
)

// RateEngine implements the two-pass pricing protocol. Pass one derives a
// single premium rate from the full historical stress record and freezes it.
// Pass two replays that frozen rate against each year. The rate is never
// recomputed from a subset of years or adjusted per replay year; that would
// let the simulation know future losses when setting the price.
type RateEngine struct {
	cfg config.EngineConfig
}

func NewRateEngine(cfg config.EngineConfig) *RateEngine {
	return &RateEngine{cfg: cfg}
}

// PricingInput carries the request-level financial terms.
type PricingInput struct {
	ExpectedYieldTPerHa float64
	PricePerTonUSD      float64
	AreaHa              float64
	DeductibleRate      float64
	Loadings            map[string]float64
	ZoneRiskMultiplier  float64
}

// Price derives the frozen ActuarialQuote from the ordered year results.
// Fewer valid years than the regulatory minimum is a hard failure; between
// the minimum and the actuarial standard the quote proceeds flagged.
func (e *RateEngine) Price(results []models.YearStressResult, in PricingInput) (models.ActuarialQuote, error) {
	if len(results) < e.cfg.RegulatoryMinYears {
		return models.ActuarialQuote{}, &models.InsufficientDataError{
			YearsAvailable:  len(results),
			MinimumRequired: e.cfg.RegulatoryMinYears,
		}
	}

	totalImpact := 0.0
	for _, r := range results {
		totalImpact += r.DroughtImpactPercent
	}
	averageImpact := totalImpact / float64(len(results))

	adjustedRisk := (averageImpact / 100) * e.cfg.BaseLoadingMultiplier * in.ZoneRiskMultiplier
	premiumRate := clamp(adjustedRisk, e.cfg.MinimumRate, e.cfg.MaximumRate)

	sumInsured := in.ExpectedYieldTPerHa * in.PricePerTonUSD * in.AreaHa
	burningCost := sumInsured * premiumRate

	loadingRates := in.Loadings
	if len(loadingRates) == 0 {
		loadingRates = map[string]float64{
			"admin":       e.cfg.DefaultAdminLoading,
			"margin":      e.cfg.DefaultMarginLoading,
			"reinsurance": e.cfg.DefaultReinsuranceLoading,
		}
	}
	loadings := make(map[string]float64, len(loadingRates))
	totalLoadings := 0.0
	for name, rate := range loadingRates {
		amount := rate * burningCost
		loadings[name] = amount
		totalLoadings += amount
	}

	return models.ActuarialQuote{
		PremiumRate:             premiumRate,
		SumInsuredUSD:           sumInsured,
		BurningCostUSD:          burningCost,
		Loadings:                loadings,
		TotalLoadingsUSD:        totalLoadings,
		GrossPremiumUSD:         burningCost + totalLoadings,
		DeductibleRate:          in.DeductibleRate,
		DeductibleAmountUSD:     sumInsured * in.DeductibleRate,
		AverageImpactPercent:    averageImpact,
		ZoneRiskMultiplier:      in.ZoneRiskMultiplier,
		HistoricalYearsAnalyzed: len(results),
		MeetsActuarialStandard:  len(results) >= e.cfg.ActuarialStandardYears,
	}, nil
}

// Replay applies the frozen quote to every historical year. Years without a
// planting detection are simply absent from results, never zero-filled.
func (e *RateEngine) Replay(results []models.YearStressResult, quote models.ActuarialQuote) ([]models.SimulationRow, models.SimulationSummary) {
	rows := make([]models.SimulationRow, 0, len(results))

	summary := models.SimulationSummary{
		YearsSimulated:   len(results),
		MinImpactPercent: math.Inf(1),
		MaxImpactPercent: math.Inf(-1),
	}
	totalImpact := 0.0
	payoutFloor := quote.GrossPremiumUSD * 0.01

	for _, r := range results {
		impactAfterDeductible := math.Max(0, r.DroughtImpactPercent-quote.DeductibleRate*100)
		payout := quote.SumInsuredUSD * impactAfterDeductible / 100

		lossRatio := 0.0
		if quote.GrossPremiumUSD > 0 {
			lossRatio = payout / quote.GrossPremiumUSD
		}

		rows = append(rows, models.SimulationRow{
			Year:                  r.Year,
			PlantingDate:          r.PlantingDate.Format("2006-01-02"),
			DroughtImpactPercent:  r.DroughtImpactPercent,
			ImpactAfterDeductible: impactAfterDeductible,
			SimulatedPayoutUSD:    payout,
			SimulatedPremiumUSD:   quote.GrossPremiumUSD,
			PremiumRateApplied:    quote.PremiumRate,
			NetResultUSD:          payout - quote.GrossPremiumUSD,
			LossRatio:             lossRatio,
			DominantSignal:        r.DominantSignal,
			RiskCategory:          models.CategorizeImpact(r.DroughtImpactPercent),
		})

		totalImpact += r.DroughtImpactPercent
		summary.TotalPayoutsUSD += payout
		if payout > payoutFloor {
			summary.PayoutYears++
		}
		if r.DroughtImpactPercent < summary.MinImpactPercent {
			summary.MinImpactPercent = r.DroughtImpactPercent
			summary.BestYear = r.Year
		}
		if r.DroughtImpactPercent > summary.MaxImpactPercent {
			summary.MaxImpactPercent = r.DroughtImpactPercent
			summary.WorstYear = r.Year
		}
	}

	if len(results) == 0 {
		summary.MinImpactPercent = 0
		summary.MaxImpactPercent = 0
		return rows, summary
	}

	summary.AverageImpactPercent = totalImpact / float64(len(results))
	summary.TotalPremiumsUSD = float64(len(results)) * quote.GrossPremiumUSD
	if summary.TotalPremiumsUSD > 0 {
		summary.OverallLossRatio = summary.TotalPayoutsUSD / summary.TotalPremiumsUSD
	}
	summary.PayoutFrequency = float64(summary.PayoutYears) / float64(len(results))
	return rows, summary
}
