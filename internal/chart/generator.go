package chart

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Generator builds chart specs with a fixed theme.
type Generator struct {
	theme Theme
}

func NewGenerator(theme Theme) *Generator {
	return &Generator{theme: theme}
}

// Scatter plots y against x for every row, in row order. Rows with a
// non-finite value on either axis are left out.
func (g *Generator) Scatter(rows []weather.Reading, x, y weather.Field) (*Spec, error) {
	if err := checkFields(x, y); err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		p := Point{X: x.Value(r), Y: y.Value(r)}
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		points = append(points, p)
	}

	return &Spec{
		Kind:   "scatter",
		XAxis:  g.axis(x, false),
		YAxis:  g.axis(y, true),
		Points: points,
		Style:  g.style(),
	}, nil
}

// TrendScatter is Scatter plus the overlay computed by mode.
func (g *Generator) TrendScatter(rows []weather.Reading, x, y weather.Field, mode Mode) (*Spec, error) {
	tr, ok := trends[mode]
	if !ok {
		return nil, fmt.Errorf("unknown trend mode %q", mode)
	}

	spec, err := g.Scatter(rows, x, y)
	if err != nil {
		return nil, err
	}

	spec.Title = tr.title
	spec.Trend = &Overlay{
		Mode:   mode,
		Name:   tr.title,
		Color:  g.theme.Trend,
		Points: tr.fit(sortByX(spec.Points)),
	}
	return spec, nil
}

func (g *Generator) axis(f weather.Field, grid bool) Axis {
	typ := AxisLinear
	if f.IsTime() {
		typ = AxisDate
	}
	return Axis{
		Field:    string(f),
		Title:    f.Label(),
		Type:     typ,
		ShowGrid: grid,
	}
}

func (g *Generator) style() Style {
	return Style{
		Background: g.theme.Background,
		GridColor:  g.theme.GridLine,
		TraceColor: g.theme.Trace,
		FontColor:  g.theme.Font,
		Height:     g.theme.Height,
	}
}

func checkFields(fields ...weather.Field) error {
	for _, f := range fields {
		if _, err := weather.ParseField(string(f)); err != nil {
			return err
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
