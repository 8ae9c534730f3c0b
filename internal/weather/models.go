package weather

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// PrecipNone is the sentinel stored in cleaned readings that carry no precipitation type.
const PrecipNone = "none"

// Precipitation types reported by the sensors.
const (
	PrecipRain = "rain"
	PrecipSnow = "snow"
)

// Reading is one row of the weatherHistory table.
//
// ReadingTime holds the raw value as stored; Time is only meaningful once the
// reading went through Clean.
type Reading struct {
	ID                  int64          `json:"id"`
	ReadingTime         string         `json:"reading_time"`
	Time                time.Time      `json:"time"`
	Summary             string         `json:"summary"`
	PrecipType          sql.NullString `json:"-"`
	Temperature         float64        `json:"temperature"`
	ApparentTemperature float64        `json:"apparent_temperature"`
	Humidity            float64        `json:"humidity"`
	WindSpeed           float64        `json:"wind_speed"`
	WindBearing         float64        `json:"wind_bearing"`
	Visibility          float64        `json:"visibility"`
	Pressure            float64        `json:"pressure"`
}

// Precip returns the precipitation type, or an empty string when unset.
func (r Reading) Precip() string {
	if !r.PrecipType.Valid {
		return ""
	}
	return r.PrecipType.String
}

// Precipitation builds a nullable precipitation value; an empty string maps to NULL.
func Precipitation(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Validate checks a reading before it is inserted.
func (r Reading) Validate() error {
	if r.ReadingTime == "" {
		return fmt.Errorf("reading_time is required")
	}
	if _, err := ParseReadingTime(r.ReadingTime); err != nil {
		return err
	}
	for _, f := range Fields {
		if f.IsTime() {
			continue
		}
		if v := f.Value(r); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", f, v)
		}
	}
	if r.Humidity < 0 || r.Humidity > 1 {
		return fmt.Errorf("humidity must be between 0 and 1, got %v", r.Humidity)
	}
	if r.WindBearing < 0 || r.WindBearing > 360 {
		return fmt.Errorf("wind_bearing must be between 0 and 360, got %v", r.WindBearing)
	}
	switch r.Precip() {
	case "", PrecipNone, PrecipRain, PrecipSnow:
	default:
		return fmt.Errorf("unknown precip_type %q", r.Precip())
	}
	return nil
}
