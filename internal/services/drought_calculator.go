package services

import (
	"math"
	"strings"

	"quote-service/internal/config"
	"quote-service/internal/models"
)

// Redistributor converts a phase rainfall total into an estimated daily
// series for signal analysis. It is an explicitly labeled approximation, not
// measured data, so it stays swappable and independently testable.
type Redistributor interface {
	Distribute(totalMM float64, days int) []float64
}

// FrontLoadedRedistributor approximates the observed Pareto-like pattern that
// roughly 70% of seasonal rainfall falls on roughly 30% of days. The heavy
// share goes to the leading block of days, the remainder spreads evenly over
// the rest. Deterministic: the same total and day count always produce the
// same series.
type FrontLoadedRedistributor struct{}

func (FrontLoadedRedistributor) Distribute(totalMM float64, days int) []float64 {
	if days <= 0 || totalMM < 0 {
		return nil
	}
	series := make([]float64, days)
	if totalMM == 0 {
		return series
	}

	heavyDays := int(math.Ceil(float64(days) * 0.3))
	if heavyDays < 1 {
		heavyDays = 1
	}
	if heavyDays >= days {
		for i := range series {
			series[i] = totalMM / float64(days)
		}
		return series
	}

	heavyShare := totalMM * 0.7
	lightShare := totalMM - heavyShare
	for i := 0; i < heavyDays; i++ {
		series[i] = heavyShare / float64(heavyDays)
	}
	for i := heavyDays; i < days; i++ {
		series[i] = lightShare / float64(days-heavyDays)
	}
	return series
}

// DroughtCalculator turns per-phase rainfall into a season drought impact.
// Two interchangeable models: the simple deficit ratio, and the multi-signal
// methodology where the worst of three failure modes dominates.
type DroughtCalculator struct {
	cfg           config.EngineConfig
	redistributor Redistributor
}

func NewDroughtCalculator(cfg config.EngineConfig, redistributor Redistributor) *DroughtCalculator {
	if redistributor == nil {
		redistributor = FrontLoadedRedistributor{}
	}
	return &DroughtCalculator{cfg: cfg, redistributor: redistributor}
}

// sensitivityFor encodes that water stress during reproductive stages causes
// disproportionate yield loss. Fill phases (grain, pod, boll) and flowering
// carry 1.3, emergence 1.1, everything else 1.0.
func sensitivityFor(phaseName string) float64 {
	name := strings.ToLower(phaseName)
	switch {
	case strings.Contains(name, "flower") || strings.Contains(name, "fill") || strings.Contains(name, "grain"):
		return 1.3
	case strings.Contains(name, "emergence"):
		return 1.1
	default:
		return 1.0
	}
}

// AnalyzeSeason computes one year's drought impact from phase rainfall
// totals. A phase absent from totals is excluded from the weighted result and
// flagged in MissingPhases rather than treated as total loss. Impact is
// always clamped to [0, 100].
func (c *DroughtCalculator) AnalyzeSeason(det models.PlantingDetection, phases []models.Phase, weights []float64, totals map[string]float64) models.YearStressResult {
	result := models.YearStressResult{
		Year:             det.Year,
		PlantingDate:     det.Date,
		PlantingEvidence: det.Evidence,
		PhaseRainfallMM:  map[string]float64{},
		DominantSignal:   models.SignalNone,
	}

	weightedCumulative := 0.0
	weightedRolling := 0.0
	weightedDry := 0.0

	for i, phase := range phases {
		actual, ok := totals[phase.Name]
		if !ok {
			result.MissingPhases = append(result.MissingPhases, phase.Name)
			continue
		}
		result.PhaseRainfallMM[phase.Name] = actual

		sensitivity := sensitivityFor(phase.Name)
		ps := models.PhaseStress{
			PhaseName:             phase.Name,
			PhaseNumber:           i + 1,
			RainfallMM:            actual,
			WaterNeedMM:           phase.WaterNeedMM,
			DeficitMM:             math.Max(0, phase.WaterNeedMM-actual),
			PhaseWeight:           weights[i],
			SensitivityMultiplier: sensitivity,
		}

		ps.CumulativeStress = cumulativeStress(actual, phase.WaterNeedMM)

		if c.cfg.StressModel == string(models.StressModelMultiSignal) {
			daily := c.redistributor.Distribute(actual, phase.DurationDays())
			ps.RollingWindowStress = c.rollingWindowStress(daily)
			ps.ConsecutiveDryStress = c.consecutiveDryStress(daily)
		}

		ps.MaxStress = math.Max(ps.CumulativeStress, math.Max(ps.RollingWindowStress, ps.ConsecutiveDryStress))
		ps.WeightedStress = ps.MaxStress * ps.PhaseWeight * sensitivity

		weightedCumulative += ps.CumulativeStress * ps.PhaseWeight * sensitivity
		weightedRolling += ps.RollingWindowStress * ps.PhaseWeight * sensitivity
		weightedDry += ps.ConsecutiveDryStress * ps.PhaseWeight * sensitivity

		if ps.MaxStress > 0.5 {
			result.CriticalPeriodsCount++
		}
		result.PhaseStresses = append(result.PhaseStresses, ps)
	}

	var impact float64
	switch models.StressModel(c.cfg.StressModel) {
	case models.StressModelMultiSignal:
		impact = 100 * math.Max(weightedCumulative, math.Max(weightedRolling, weightedDry))
		result.DominantSignal = dominantSignal(weightedCumulative, weightedRolling, weightedDry)
	default:
		impact = 100 * weightedCumulative
		if weightedCumulative > 0 {
			result.DominantSignal = models.SignalCumulative
		}
	}

	result.DroughtImpactPercent = clamp(impact, 0, 100)
	return result
}

// cumulativeStress is the classic deficit ratio, capped at total loss.
func cumulativeStress(actualMM, needMM float64) float64 {
	if needMM <= 0 || actualMM >= needMM {
		return 0
	}
	return math.Min(1, (needMM-actualMM)/needMM)
}

// rollingWindowStress slides a fixed window across the daily series. A window
// at or below the trigger total is in drought. The phase stress is the worst
// single window's deficit ratio scaled by how much of the phase was in
// drought, so one dry spell in an otherwise wet phase scores lower than a
// phase that was dry throughout.
func (c *DroughtCalculator) rollingWindowStress(daily []float64) float64 {
	size := c.cfg.RollingWindowDays
	if len(daily) < size {
		return 0
	}

	maxIntensity := 0.0
	droughtWindows := 0
	total := 0
	for i := 0; i+size <= len(daily); i++ {
		sum := 0.0
		for _, mm := range daily[i : i+size] {
			sum += mm
		}
		total++
		if sum <= c.cfg.RollingTriggerMM {
			droughtWindows++
			intensity := (c.cfg.RollingTriggerMM - sum) / c.cfg.RollingTriggerMM
			if intensity > maxIntensity {
				maxIntensity = intensity
			}
		}
	}
	if total == 0 {
		return 0
	}
	return maxIntensity * float64(droughtWindows) / float64(total)
}

// consecutiveDryStress ramps from zero once the longest dry run reaches the
// trigger length and saturates at the configured run length.
func (c *DroughtCalculator) consecutiveDryStress(daily []float64) float64 {
	longest := 0
	run := 0
	for _, mm := range daily {
		if mm < c.cfg.DryDayThresholdMM {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	trigger := c.cfg.ConsecutiveDryTrigger
	saturate := c.cfg.ConsecutiveDrySaturate
	if longest < trigger || saturate <= trigger {
		return 0
	}
	return math.Min(1, float64(longest-trigger)/float64(saturate-trigger))
}

func dominantSignal(cumulative, rolling, dry float64) models.StressSignal {
	if cumulative == 0 && rolling == 0 && dry == 0 {
		return models.SignalNone
	}
	switch {
	case cumulative >= rolling && cumulative >= dry:
		return models.SignalCumulative
	case rolling >= dry:
		return models.SignalRollingWindow
	default:
		return models.SignalConsecutiveDry
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
