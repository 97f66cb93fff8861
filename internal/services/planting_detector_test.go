package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/config"
	"quote-service/internal/models"
)

func defaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		PlantingTriggerMM:  20,
		PlantingMinRainDay: 2,
		PlantingDailyMM:    5,
		PlantingWindowDays: 7,

		StressModel: "multi_signal",

		RollingWindowDays:      10,
		RollingTriggerMM:       15,
		DryDayThresholdMM:      1,
		ConsecutiveDryTrigger:  10,
		ConsecutiveDrySaturate: 30,

		BaseLoadingMultiplier: 1.5,
		MinimumRate:           0.015,
		MaximumRate:           0.25,
		DefaultDeductible:     0.05,

		DefaultAdminLoading:       0.10,
		DefaultMarginLoading:      0.05,
		DefaultReinsuranceLoading: 0.075,

		RegulatoryMinYears:     15,
		ActuarialStandardYears: 20,
		OptimalWindowYears:     25,

		EarliestDataYear: 1981,
	}
}

func seriesFrom(start time.Time, values ...float64) []models.DailyRainfall {
	series := make([]models.DailyRainfall, len(values))
	for i, v := range values {
		series[i] = models.DailyRainfall{Date: start.AddDate(0, 0, i), MM: v}
	}
	return series
}

func TestDetect_QualifyingWindow(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	// A series of exactly one window: 0+0+0+6+6+6+6 = 24mm with four days
	// >= 5mm. Seven days of data is enough to both qualify and date planting.
	series := seriesFrom(start, 0, 0, 0, 6, 6, 6, 6)

	result := d.Detect(2023, series)

	require.True(t, result.Detected)
	assert.Equal(t, start.AddDate(0, 0, 1), result.Date, "planting is the day after the window opens")
	assert.Contains(t, result.Evidence, "24.0mm")
	assert.Empty(t, result.Reason)
}

func TestDetect_FirstQualifyingWindowWins(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

	// Two qualifying rain clusters; the earliest window wins.
	series := seriesFrom(start, 0, 0, 10, 12, 0, 0, 0, 0, 0, 15, 15, 15)

	result := d.Detect(2023, series)

	require.True(t, result.Detected)
	assert.Equal(t, start.AddDate(0, 0, 1), result.Date)
}

func TestDetect_CumulativeAloneIsNotEnough(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	// 25mm in one storm: cumulative passes but only one day >= 5mm.
	result := d.Detect(2023, seriesFrom(start, 0, 25, 0, 0, 0, 0, 0, 0))

	assert.False(t, result.Detected)
	assert.Contains(t, result.Reason, "no 7-day window")
}

func TestDetect_WetDaysAloneAreNotEnough(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	// Two qualifying days but cumulative only 12mm.
	result := d.Detect(2023, seriesFrom(start, 0, 6, 6, 0, 0, 0, 0, 0))

	assert.False(t, result.Detected)
}

func TestDetect_ExactThresholdsQualify(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	// Exactly 20mm with exactly two days at exactly 5mm.
	result := d.Detect(2023, seriesFrom(start, 5, 5, 4, 4, 2, 0, 0, 0))

	require.True(t, result.Detected)
	assert.Equal(t, start.AddDate(0, 0, 1), result.Date)
}

func TestDetect_ShortSeries(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	result := d.Detect(2023, seriesFrom(start, 10, 10, 10))

	assert.False(t, result.Detected)
	assert.Contains(t, result.Reason, "need at least 7")
}

func TestDetect_DrySeasonNeverDetects(t *testing.T) {
	d := NewPlantingDetector(defaultEngineConfig())
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

	values := make([]float64, 120)
	for i := range values {
		values[i] = 0.5
	}
	result := d.Detect(2023, seriesFrom(start, values...))

	assert.False(t, result.Detected)
	assert.Equal(t, 2023, result.Year)
	assert.NotEmpty(t, result.Reason)
}

func TestDetect_AlternativeThresholdsViaConfig(t *testing.T) {
	cfg := defaultEngineConfig()
	cfg.PlantingTriggerMM = 15
	cfg.PlantingMinRainDay = 3
	cfg.PlantingDailyMM = 3
	d := NewPlantingDetector(cfg)
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	// 15mm across three 5mm days fails the canonical rule but passes this one.
	result := d.Detect(2023, seriesFrom(start, 5, 5, 5, 0, 0, 0, 0, 0))

	require.True(t, result.Detected)
	assert.Equal(t, start.AddDate(0, 0, 1), result.Date)
}
