package dashboard

import (
	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Option is one entry of a selector.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Range bounds a slider.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Options is the metadata a front end needs to draw the selectors.
type Options struct {
	Panels   []PanelID        `json:"panels"`
	Fields   []Option         `json:"fields"`
	Trends   []Option         `json:"trends"`
	Years    []string         `json:"years"`
	RowCount Range            `json:"row_count"`
	Sliders  map[string]Range `json:"sliders"`
}

// sliders are the forecast input ranges, keyed by request field.
var sliders = map[string]Range{
	"temperature":          {Min: -60, Max: 60, Step: 5},
	"apparent_temperature": {Min: -60, Max: 60, Step: 5},
	"humidity":             {Min: 0, Max: 1, Step: 0.05},
	"wind_speed":           {Min: 0, Max: 25, Step: 1},
	"wind_bearing":         {Min: 0, Max: 360, Step: 30},
	"visibility":           {Min: 0, Max: 25, Step: 1},
	"pressure":             {Min: 950, Max: 1050, Step: 5},
}

// Options lists the selector values and slider ranges.
func (d *Dashboard) Options() Options {
	opts := Options{
		Panels:   d.Panels(),
		Years:    append([]string(nil), Years...),
		RowCount: Range{Min: MinRowCount, Max: MaxRowCount, Step: 300},
		Sliders:  sliders,
	}
	for _, f := range weather.Fields {
		opts.Fields = append(opts.Fields, Option{Value: string(f), Label: f.Label()})
	}
	for _, m := range chart.Modes {
		opts.Trends = append(opts.Trends, Option{Value: string(m), Label: m.Title()})
	}
	return opts
}
