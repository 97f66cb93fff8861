package models

import "time"

// Location identifies the ground footprint rainfall is averaged over.
// The upstream aggregation API buffers the point into a circle server-side.
type Location struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	BufferRadiusM float64 `json:"buffer_radius_m"`
}

// DailyRainfall is one calendar day of area-averaged rainfall.
type DailyRainfall struct {
	Date time.Time `json:"date"`
	MM   float64   `json:"mm"`
}

// DateRange is an inclusive calendar interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PlantingDetection is the outcome of scanning one season's rainfall for a
// planting trigger. A season without a qualifying pattern is a normal,
// first-class outcome, not an error: Detected is false and Reason explains why.
type PlantingDetection struct {
	Year     int       `json:"year"`
	Detected bool      `json:"detected"`
	Date     time.Time `json:"date,omitempty"`
	Evidence string    `json:"evidence,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}
