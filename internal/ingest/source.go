package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var unitSuffix = regexp.MustCompile(`\s*\(.*?\)`)

// headerAliases maps headers of the public weather history export to columns.
var headerAliases = map[string]string{
	"formatted_date": "reading_time",
}

// LoadCSV reads readings from a CSV file with a header row.
func LoadCSV(path string) ([]weather.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV source: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses readings from CSV. Columns are matched by header name, units
// in parentheses are ignored and unknown columns are skipped. Rows that do not
// parse are reported with their line number.
func ReadCSV(r io.Reader) ([]weather.Reading, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[normalizeHeader(h)] = i
	}
	if _, ok := cols["reading_time"]; !ok {
		return nil, fmt.Errorf("CSV source has no reading_time column")
	}

	var readings []weather.Reading
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		reading, err := rowToReading(cols, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func rowToReading(cols map[string]int, row []string) (weather.Reading, error) {
	get := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	r := weather.Reading{
		ReadingTime: get("reading_time"),
		Summary:     get("summary"),
		PrecipType:  weather.Precipitation(get("precip_type")),
	}

	numeric := []struct {
		key string
		dst *float64
	}{
		{"temperature", &r.Temperature},
		{"apparent_temperature", &r.ApparentTemperature},
		{"humidity", &r.Humidity},
		{"wind_speed", &r.WindSpeed},
		{"wind_bearing", &r.WindBearing},
		{"visibility", &r.Visibility},
		{"pressure", &r.Pressure},
	}
	for _, n := range numeric {
		raw := get(n.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return weather.Reading{}, fmt.Errorf("column %s: %w", n.key, err)
		}
		*n.dst = v
	}
	return r, nil
}

// normalizeHeader turns "Wind Speed (km/h)" into "wind_speed".
func normalizeHeader(h string) string {
	h = unitSuffix.ReplaceAllString(h, "")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Join(strings.Fields(h), "_")
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// SampleReadings are the demo rows published when no CSV source is configured.
func SampleReadings() []weather.Reading {
	return []weather.Reading{
		sample("2016-10-15 15:00:00", "Overcast", "", 20.233334, 19.2701, 0.47, 10.33, 249, 12.34, 1011.33),
		sample("2016-11-30 15:00:00", "Partly Cloudy", "", 19.233334, 18.5561, 0.34, 6.15, 249, 18.44, 1012.33),
		sample("2016-12-11 15:00:00", "Partly Cloudy", weather.PrecipRain, 19.233334, 16.2701, 0.49, 8.33, 249, 10.34, 1015.33),
		sample("2016-12-30 15:00:00", "Clear", weather.PrecipSnow, 19.233334, 16.2701, 0.44, 8.33, 249, 10.34, 1015.33),
		sample("2017-01-06 15:00:00", "Clear", "", 17.233334, 14.2701, 0.23, 12.33, 249, 16.12, 1014.13),
		sample("2017-01-12 15:00:00", "Foggy", weather.PrecipRain, 21.34566, 18.3551, 0.45, 6.23, 251, 10.34, 1021.25),
		sample("2017-02-01 15:00:00", "Overcast", weather.PrecipRain, 19.4567, 16.8901, 0.61, 8.56, 249, 10.34, 1015.33),
	}
}

func sample(ts, summary, precip string, temp, appTemp, humidity, windSpeed, bearing, visibility, pressure float64) weather.Reading {
	return weather.Reading{
		ReadingTime:         ts,
		Summary:             summary,
		PrecipType:          weather.Precipitation(precip),
		Temperature:         temp,
		ApparentTemperature: appTemp,
		Humidity:            humidity,
		WindSpeed:           windSpeed,
		WindBearing:         bearing,
		Visibility:          visibility,
		Pressure:            pressure,
	}
}
