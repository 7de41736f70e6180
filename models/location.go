package models

import "math"

// Location is used as cache to avoid hammering the Geocoding service
type Location struct {
	GpsLat  float64 `gorm:"type:double;primaryKey"` // Rounded to 0.0001
	GpsLong float64 `gorm:"type:double;primaryKey"` // Rounded to 0.0001
	Display string  `gorm:"type:varchar(250)"`
}

// RoundGpsCoord normalises a coordinate for use as a cache key
func RoundGpsCoord(c float64) float64 {
	return math.Round(c*10000) / 10000
}
