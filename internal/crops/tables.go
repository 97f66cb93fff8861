package crops

import "quote-service/internal/models"

// Built-in reference tables for Southern African smallholder cropping.
// Phase tuples follow (start_day, end_day, trigger_mm, exit_mm, name,
// water_need_mm, observation_window_days) relative to planting day 0.

func builtinCrops() map[string]models.CropPhenology {
	return map[string]models.CropPhenology{
		"maize": {
			Crop: "maize",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 14, TriggerMM: 25, ExitMM: 5, Name: "Emergence", WaterNeedMM: 30, ObservationWindowDays: 10},
				{StartDay: 15, EndDay: 49, TriggerMM: 60, ExitMM: 15, Name: "Vegetative", WaterNeedMM: 80, ObservationWindowDays: 10},
				{StartDay: 50, EndDay: 84, TriggerMM: 80, ExitMM: 20, Name: "Flowering", WaterNeedMM: 100, ObservationWindowDays: 10},
				{StartDay: 85, EndDay: 120, TriggerMM: 70, ExitMM: 10, Name: "Grain Fill", WaterNeedMM: 90, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.3, Mid: 1.2, Late: 0.5},
			TotalSeasonDays:         120,
			DefaultPlantingMonthDay: "11-15",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Maize (corn) - primary staple crop across Southern Africa",
		},
		"soyabeans": {
			Crop: "soyabeans",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 14, TriggerMM: 20, ExitMM: 3, Name: "Emergence", WaterNeedMM: 25, ObservationWindowDays: 10},
				{StartDay: 15, EndDay: 42, TriggerMM: 55, ExitMM: 12, Name: "Vegetative", WaterNeedMM: 70, ObservationWindowDays: 10},
				{StartDay: 43, EndDay: 77, TriggerMM: 75, ExitMM: 18, Name: "Flowering", WaterNeedMM: 95, ObservationWindowDays: 10},
				{StartDay: 78, EndDay: 115, TriggerMM: 65, ExitMM: 8, Name: "Pod Fill", WaterNeedMM: 85, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.35, Mid: 1.15, Late: 0.6},
			TotalSeasonDays:         115,
			DefaultPlantingMonthDay: "11-20",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Soybeans - protein and cash crop",
		},
		"sorghum": {
			Crop: "sorghum",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 12, TriggerMM: 20, ExitMM: 3, Name: "Emergence", WaterNeedMM: 25, ObservationWindowDays: 10},
				{StartDay: 13, EndDay: 38, TriggerMM: 50, ExitMM: 10, Name: "Vegetative", WaterNeedMM: 65, ObservationWindowDays: 10},
				{StartDay: 39, EndDay: 73, TriggerMM: 70, ExitMM: 15, Name: "Flowering", WaterNeedMM: 85, ObservationWindowDays: 10},
				{StartDay: 74, EndDay: 105, TriggerMM: 60, ExitMM: 8, Name: "Grain Fill", WaterNeedMM: 75, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.3, Mid: 1.05, Late: 0.55},
			TotalSeasonDays:         105,
			DefaultPlantingMonthDay: "11-15",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Sorghum - drought-tolerant cereal",
		},
		"cotton": {
			Crop: "cotton",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 15, TriggerMM: 22, ExitMM: 4, Name: "Emergence", WaterNeedMM: 28, ObservationWindowDays: 10},
				{StartDay: 16, EndDay: 55, TriggerMM: 55, ExitMM: 12, Name: "Vegetative", WaterNeedMM: 75, ObservationWindowDays: 10},
				{StartDay: 56, EndDay: 90, TriggerMM: 85, ExitMM: 20, Name: "Flowering", WaterNeedMM: 110, ObservationWindowDays: 10},
				{StartDay: 91, EndDay: 130, TriggerMM: 75, ExitMM: 10, Name: "Boll Fill", WaterNeedMM: 95, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.35, Mid: 1.15, Late: 0.6},
			TotalSeasonDays:         130,
			DefaultPlantingMonthDay: "11-10",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Cotton - export cash crop",
		},
		"groundnuts": {
			Crop: "groundnuts",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 12, TriggerMM: 18, ExitMM: 3, Name: "Emergence", WaterNeedMM: 22, ObservationWindowDays: 10},
				{StartDay: 13, EndDay: 38, TriggerMM: 45, ExitMM: 10, Name: "Vegetative", WaterNeedMM: 60, ObservationWindowDays: 10},
				{StartDay: 39, EndDay: 70, TriggerMM: 70, ExitMM: 15, Name: "Flowering", WaterNeedMM: 85, ObservationWindowDays: 10},
				{StartDay: 71, EndDay: 100, TriggerMM: 55, ExitMM: 8, Name: "Pod Fill", WaterNeedMM: 70, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.4, Mid: 1.1, Late: 0.7},
			TotalSeasonDays:         100,
			DefaultPlantingMonthDay: "11-25",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Groundnuts (peanuts) - protein and oil crop",
		},
		"wheat": {
			Crop: "wheat",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 12, TriggerMM: 15, ExitMM: 2, Name: "Emergence", WaterNeedMM: 20, ObservationWindowDays: 10},
				{StartDay: 13, EndDay: 42, TriggerMM: 40, ExitMM: 8, Name: "Vegetative", WaterNeedMM: 55, ObservationWindowDays: 10},
				{StartDay: 43, EndDay: 70, TriggerMM: 65, ExitMM: 12, Name: "Flowering", WaterNeedMM: 80, ObservationWindowDays: 10},
				{StartDay: 71, EndDay: 95, TriggerMM: 50, ExitMM: 5, Name: "Grain Fill", WaterNeedMM: 65, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.3, Mid: 1.15, Late: 0.25},
			TotalSeasonDays:         95,
			DefaultPlantingMonthDay: "11-20",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Wheat - cool season cereal",
		},
		"barley": {
			Crop: "barley",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 12, TriggerMM: 15, ExitMM: 2, Name: "Emergence", WaterNeedMM: 20, ObservationWindowDays: 10},
				{StartDay: 13, EndDay: 42, TriggerMM: 40, ExitMM: 8, Name: "Vegetative", WaterNeedMM: 55, ObservationWindowDays: 10},
				{StartDay: 43, EndDay: 70, TriggerMM: 65, ExitMM: 12, Name: "Flowering", WaterNeedMM: 80, ObservationWindowDays: 10},
				{StartDay: 71, EndDay: 95, TriggerMM: 50, ExitMM: 5, Name: "Grain Fill", WaterNeedMM: 65, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.3, Mid: 1.05, Late: 0.25},
			TotalSeasonDays:         95,
			DefaultPlantingMonthDay: "11-20",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Barley - hardy cereal for cooler areas",
		},
		"millet": {
			Crop: "millet",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 10, TriggerMM: 12, ExitMM: 2, Name: "Emergence", WaterNeedMM: 18, ObservationWindowDays: 10},
				{StartDay: 11, EndDay: 38, TriggerMM: 35, ExitMM: 8, Name: "Vegetative", WaterNeedMM: 50, ObservationWindowDays: 10},
				{StartDay: 39, EndDay: 65, TriggerMM: 60, ExitMM: 12, Name: "Flowering", WaterNeedMM: 75, ObservationWindowDays: 10},
				{StartDay: 66, EndDay: 95, TriggerMM: 45, ExitMM: 5, Name: "Grain Fill", WaterNeedMM: 60, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.3, Mid: 1.0, Late: 0.5},
			TotalSeasonDays:         95,
			DefaultPlantingMonthDay: "11-10",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Millet - highly drought-tolerant cereal",
		},
		"tobacco": {
			Crop: "tobacco",
			Phases: []models.Phase{
				{StartDay: 0, EndDay: 14, TriggerMM: 22, ExitMM: 4, Name: "Emergence", WaterNeedMM: 28, ObservationWindowDays: 10},
				{StartDay: 15, EndDay: 50, TriggerMM: 55, ExitMM: 12, Name: "Vegetative", WaterNeedMM: 75, ObservationWindowDays: 10},
				{StartDay: 51, EndDay: 80, TriggerMM: 75, ExitMM: 18, Name: "Flowering", WaterNeedMM: 95, ObservationWindowDays: 10},
				{StartDay: 81, EndDay: 120, TriggerMM: 65, ExitMM: 8, Name: "Maturation", WaterNeedMM: 80, ObservationWindowDays: 10},
			},
			PhaseWeights:            []float64{0.15, 0.25, 0.40, 0.20},
			Kc:                      models.KcValues{Initial: 0.4, Mid: 1.2, Late: 0.65},
			TotalSeasonDays:         120,
			DefaultPlantingMonthDay: "11-05",
			SearchStartMonthDay:     "10-01",
			SearchEndMonthDay:       "01-31",
			Description:             "Tobacco - high-value cash crop",
		},
	}
}

func builtinZones() map[string]models.Zone {
	return map[string]models.Zone{
		"aez_3_midlands": {
			ID:                     "aez_3_midlands",
			Name:                   "AEZ 3 (Midlands)",
			PhaseWeightAdjustments: []float64{1.0, 1.0, 1.0, 1.0},
			RiskMultiplier:         1.0,
			PrimaryRisk:            "Balanced drought/excess",
			AnnualRainfallRange:    "750-1000mm",
			Description:            "Balanced rainfall patterns, moderate drought risk",
		},
		"aez_4_masvingo": {
			ID:                     "aez_4_masvingo",
			Name:                   "AEZ 4 (Masvingo)",
			PhaseWeightAdjustments: []float64{1.33, 0.67, 1.43, 0.57},
			RiskMultiplier:         1.15,
			PrimaryRisk:            "Drought",
			AnnualRainfallRange:    "450-650mm",
			Description:            "Semi-arid zone with high drought risk",
		},
		"aez_5_lowveld": {
			ID:                     "aez_5_lowveld",
			Name:                   "AEZ 5 (Lowveld)",
			PhaseWeightAdjustments: []float64{1.5, 0.5, 1.5, 0.5},
			RiskMultiplier:         1.3,
			PrimaryRisk:            "Severe drought",
			AnnualRainfallRange:    "300-500mm",
			Description:            "Hot, dry lowveld with extreme drought risk",
		},
		autoDetectZone: {
			ID:                     autoDetectZone,
			Name:                   "Auto-detect (Standard)",
			PhaseWeightAdjustments: []float64{1.0, 1.0, 1.0, 1.0},
			RiskMultiplier:         1.0,
			PrimaryRisk:            "Standard weighting",
			AnnualRainfallRange:    "Variable",
			Description:            "Neutral weighting used until zone detection resolves",
		},
	}
}

func builtinAliases() map[string]string {
	return map[string]string{
		"corn":      "maize",
		"soya":      "soyabeans",
		"soy":       "soyabeans",
		"soybeans":  "soyabeans",
		"peanuts":   "groundnuts",
		"groundnut": "groundnuts",
	}
}
