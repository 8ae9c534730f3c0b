package weather

import "fmt"

// Field names a plottable column of a Reading.
type Field string

const (
	FieldReadingTime         Field = "reading_time"
	FieldTemperature         Field = "temperature"
	FieldApparentTemperature Field = "apparent_temperature"
	FieldHumidity            Field = "humidity"
	FieldWindSpeed           Field = "wind_speed"
	FieldWindBearing         Field = "wind_bearing"
	FieldVisibility          Field = "visibility"
	FieldPressure            Field = "pressure"
)

// Fields lists the plottable fields in display order.
var Fields = []Field{
	FieldReadingTime,
	FieldTemperature,
	FieldApparentTemperature,
	FieldHumidity,
	FieldWindSpeed,
	FieldWindBearing,
	FieldVisibility,
	FieldPressure,
}

var fieldLabels = map[Field]string{
	FieldReadingTime:         "Reading Time",
	FieldTemperature:         "Temperature (C)",
	FieldApparentTemperature: "Apparent Temperature (C)",
	FieldHumidity:            "Humidity",
	FieldWindSpeed:           "Wind Speed (km/h)",
	FieldWindBearing:         "Wind Bearing",
	FieldVisibility:          "Visibility (km)",
	FieldPressure:            "Pressure (hPA)",
}

// ParseField validates a field name coming from a selector control.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fieldLabels[f]; !ok {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// Label returns the axis title for the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// IsTime reports whether the field holds a timestamp.
func (f Field) IsTime() bool {
	return f == FieldReadingTime
}

// Value extracts the numeric value of the field. Timestamps are returned as
// Unix milliseconds, so the reading must have been cleaned.
func (f Field) Value(r Reading) float64 {
	switch f {
	case FieldReadingTime:
		return float64(r.Time.UnixMilli())
	case FieldTemperature:
		return r.Temperature
	case FieldApparentTemperature:
		return r.ApparentTemperature
	case FieldHumidity:
		return r.Humidity
	case FieldWindSpeed:
		return r.WindSpeed
	case FieldWindBearing:
		return r.WindBearing
	case FieldVisibility:
		return r.Visibility
	case FieldPressure:
		return r.Pressure
	}
	return 0
}
