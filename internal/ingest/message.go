// Package ingest moves sensor readings between the MQTT topic and the row store.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// messageFields is the column order of a sensor message:
// reading_time, summary, precip_type, then the seven measurements.
const messageFields = 10

// ErrMalformedMessage is wrapped by every ParseMessage failure.
var ErrMalformedMessage = errors.New("malformed sensor message")

// ParseMessage decodes one comma-separated sensor message. An empty precip
// field means no precipitation type was reported and is kept as NULL.
func ParseMessage(payload []byte) (weather.Reading, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = messageFields
	reader.TrimLeadingSpace = true

	rec, err := reader.Read()
	if err != nil {
		return weather.Reading{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	r := weather.Reading{
		ReadingTime: strings.TrimSpace(rec[0]),
		Summary:     strings.TrimSpace(rec[1]),
		PrecipType:  weather.Precipitation(strings.TrimSpace(rec[2])),
	}

	targets := []*float64{
		&r.Temperature,
		&r.ApparentTemperature,
		&r.Humidity,
		&r.WindSpeed,
		&r.WindBearing,
		&r.Visibility,
		&r.Pressure,
	}
	for i, dst := range targets {
		raw := strings.TrimSpace(rec[3+i])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return weather.Reading{}, fmt.Errorf("%w: field %d %q: %v", ErrMalformedMessage, 3+i, raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return weather.Reading{}, fmt.Errorf("%w: field %d %q: not a finite number", ErrMalformedMessage, 3+i, raw)
		}
		*dst = v
	}
	return r, nil
}

// FormatMessage encodes a reading in the layout ParseMessage reads.
func FormatMessage(r weather.Reading) ([]byte, error) {
	rec := []string{
		r.ReadingTime,
		r.Summary,
		r.Precip(),
		formatFloat(r.Temperature),
		formatFloat(r.ApparentTemperature),
		formatFloat(r.Humidity),
		formatFloat(r.WindSpeed),
		formatFloat(r.WindBearing),
		formatFloat(r.Visibility),
		formatFloat(r.Pressure),
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(rec); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\r\n"), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
