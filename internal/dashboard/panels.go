package dashboard

import (
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// PanelID identifies one chart on the dashboard.
type PanelID string

const (
	PanelTemperature     PanelID = "temperature"
	PanelAppTempHumidity PanelID = "apptemp-humidity"
	PanelTempHumidity    PanelID = "temp-humidity"
	PanelCustom          PanelID = "custom"
	PanelYearly          PanelID = "yearly"
	PanelTrend           PanelID = "trend"
)

// Years offered by the year selector.
var Years = []string{"2006", "2007", "2008", "2009", "2010", "2011", "2012", "2013", "2014", "2015", "2016"}

// Selection is the per-panel selector state.
type Selection struct {
	X     weather.Field `json:"x"`
	Y     weather.Field `json:"y"`
	Trend chart.Mode    `json:"trend,omitempty"`
	Year  string        `json:"year,omitempty"`
}

type panelKind int

const (
	kindFixed panelKind = iota
	kindCustom
	kindYearly
	kindTrend
)

type definition struct {
	id       PanelID
	kind     panelKind
	title    string
	defaults Selection
}

// definitions lists the panels in layout order.
var definitions = []definition{
	{
		id:       PanelTemperature,
		kind:     kindFixed,
		title:    "Temperature (C) vs Reading Time",
		defaults: Selection{X: weather.FieldReadingTime, Y: weather.FieldTemperature},
	},
	{
		id:       PanelAppTempHumidity,
		kind:     kindFixed,
		title:    "Apparent Temperature (C) vs Humidity",
		defaults: Selection{X: weather.FieldHumidity, Y: weather.FieldApparentTemperature},
	},
	{
		id:       PanelTempHumidity,
		kind:     kindFixed,
		title:    "Temperature (C) vs Humidity",
		defaults: Selection{X: weather.FieldHumidity, Y: weather.FieldTemperature},
	},
	{
		id:       PanelCustom,
		kind:     kindCustom,
		defaults: Selection{X: weather.FieldReadingTime, Y: weather.FieldTemperature},
	},
	{
		id:       PanelYearly,
		kind:     kindYearly,
		defaults: Selection{X: weather.FieldReadingTime, Y: weather.FieldTemperature, Year: "2006"},
	},
	{
		id:       PanelTrend,
		kind:     kindTrend,
		defaults: Selection{X: weather.FieldReadingTime, Y: weather.FieldTemperature, Trend: chart.ModeOLS},
	},
}

// windowed reports whether the panel follows the row-count controls.
func (d definition) windowed() bool {
	return d.kind != kindYearly
}

func (d definition) selectable() bool {
	return d.kind != kindFixed
}

func (d definition) window(sel Selection, c Controls) weather.Window {
	if d.kind == kindYearly {
		return weather.InYear(sel.Year)
	}
	return c.Window()
}

func (d definition) caption(sel Selection) string {
	switch d.kind {
	case kindCustom:
		return fmt.Sprintf("%s VS %s", sel.Y.Label(), sel.X.Label())
	case kindYearly:
		return fmt.Sprintf("Data for year %s", sel.Year)
	case kindTrend:
		return fmt.Sprintf("%s Trend for %s vs %s", sel.Trend.Title(), sel.Y.Label(), sel.X.Label())
	}
	return d.title
}

// merge applies the non-empty fields of upd over cur and validates the result
// for this panel.
func (d definition) merge(cur, upd Selection) (Selection, error) {
	if !d.selectable() {
		return cur, fmt.Errorf("%w: panel %q has fixed axes", ErrInvalidSelection, d.id)
	}

	next := cur
	if upd.X != "" {
		next.X = upd.X
	}
	if upd.Y != "" {
		next.Y = upd.Y
	}
	if upd.Trend != "" {
		if d.kind != kindTrend {
			return cur, fmt.Errorf("%w: panel %q has no trend selector", ErrInvalidSelection, d.id)
		}
		next.Trend = upd.Trend
	}
	if upd.Year != "" {
		if d.kind != kindYearly {
			return cur, fmt.Errorf("%w: panel %q has no year selector", ErrInvalidSelection, d.id)
		}
		next.Year = upd.Year
	}

	if _, err := weather.ParseField(string(next.X)); err != nil {
		return cur, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if _, err := weather.ParseField(string(next.Y)); err != nil {
		return cur, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if d.kind == kindTrend {
		if _, err := chart.ParseMode(string(next.Trend)); err != nil {
			return cur, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
	}
	if d.kind == kindYearly {
		if _, err := weather.ParseYear(next.Year); err != nil {
			return cur, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
	}
	return next, nil
}
