package services

import (
	"fmt"

	"quote-service/internal/config"
	"quote-service/internal/models"
)

// PlantingDetector scans a season's daily rainfall for the onset pattern
// smallholders actually plant on: enough cumulative rain in a short window,
// spread over multiple wet days so a single storm does not qualify.
type PlantingDetector struct {
	windowDays  int
	triggerMM   float64
	dailyMM     float64
	minRainDays int
}

func NewPlantingDetector(cfg config.EngineConfig) *PlantingDetector {
	return &PlantingDetector{
		windowDays:  cfg.PlantingWindowDays,
		triggerMM:   cfg.PlantingTriggerMM,
		dailyMM:     cfg.PlantingDailyMM,
		minRainDays: cfg.PlantingMinRainDay,
	}
}

// Detect slides the window across the series in date order and stops at the
// first position satisfying both conditions: cumulative rainfall at or above
// the trigger, and at least the minimum count of days at or above the daily
// threshold. The planting date is the day after the window opens, when the
// ground is workable but moisture is still fresh.
//
// A season with no qualifying window is a normal outcome: Detected is false
// and Reason says why. The caller decides whether to skip the year.
func (d *PlantingDetector) Detect(year int, series []models.DailyRainfall) models.PlantingDetection {
	if len(series) < d.windowDays {
		return models.PlantingDetection{
			Year:   year,
			Reason: fmt.Sprintf("series has %d days, need at least %d", len(series), d.windowDays),
		}
	}

	for i := 0; i+d.windowDays <= len(series); i++ {
		cumulative := 0.0
		rainDays := 0
		for j := i; j < i+d.windowDays; j++ {
			cumulative += series[j].MM
			if series[j].MM >= d.dailyMM {
				rainDays++
			}
		}
		if cumulative < d.triggerMM || rainDays < d.minRainDays {
			continue
		}
		return models.PlantingDetection{
			Year:     year,
			Detected: true,
			Date:     series[i+1].Date,
			Evidence: fmt.Sprintf("%.1fmm over %d days from %s with %d days >= %.1fmm",
				cumulative, d.windowDays, series[i].Date.Format("2006-01-02"), rainDays, d.dailyMM),
		}
	}

	return models.PlantingDetection{
		Year: year,
		Reason: fmt.Sprintf("no %d-day window reached %.1fmm with %d days >= %.1fmm",
			d.windowDays, d.triggerMM, d.minRainDays, d.dailyMM),
	}
}
