package chart

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mode selects the trend fitted over a scatter.
type Mode string

const (
	ModeOLS           Mode = "ols"
	ModeOLSLog        Mode = "ols_log"
	ModeMovingAvg5    Mode = "moving_avg5"
	ModeRollingMedian Mode = "rolling_median"
	ModeExpandingMax  Mode = "expanding_max"
	ModeEWMA          Mode = "ewma"
)

const (
	rollingWindow = 5
	ewmaHalfLife  = 2.0
)

// fitFunc maps points sorted by x to the overlay curve. Points whose window is
// not yet full are left out.
type fitFunc func(points []Point) []Point

type trend struct {
	title string
	fit   fitFunc
}

// trends is the mode registry; a new mode only needs an entry here.
var trends = map[Mode]trend{
	ModeOLS:           {title: "Ordinary Least Squares", fit: fitOLS},
	ModeOLSLog:        {title: "Ordinary Least Squares (Log Transformed)", fit: fitOLSLog},
	ModeMovingAvg5:    {title: "5 Point Moving Average", fit: rolling(rollingWindow, mean)},
	ModeRollingMedian: {title: "Rolling Median", fit: rolling(rollingWindow, median)},
	ModeExpandingMax:  {title: "Expanding Maximum", fit: expandingMax},
	ModeEWMA:          {title: "Exponentially-Weighted Moving Average", fit: ewma(ewmaHalfLife)},
}

// Modes lists the registered modes in display order.
var Modes = []Mode{ModeOLS, ModeOLSLog, ModeMovingAvg5, ModeRollingMedian, ModeExpandingMax, ModeEWMA}

// ParseMode validates a trend mode coming from a selector control.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := trends[m]; !ok {
		return "", fmt.Errorf("unknown trend mode %q", s)
	}
	return m, nil
}

// Title is the human-readable name of the mode.
func (m Mode) Title() string {
	if tr, ok := trends[m]; ok {
		return tr.title
	}
	return string(m)
}

func sortByX(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

func split(points []Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func fitOLS(points []Point) []Point {
	xs, ys := split(points)
	return linearFit(xs, xs, ys)
}

// fitOLSLog regresses y on log(x). Non-positive x has no logarithm and is dropped.
func fitOLSLog(points []Point) []Point {
	var xs, logs, ys []float64
	for _, p := range points {
		if p.X <= 0 {
			continue
		}
		xs = append(xs, p.X)
		logs = append(logs, math.Log(p.X))
		ys = append(ys, p.Y)
	}
	return linearFit(xs, logs, ys)
}

// linearFit fits ys on regressors and evaluates the line at every point.
func linearFit(xs, regressors, ys []float64) []Point {
	if len(regressors) < 2 || stat.Variance(regressors, nil) == 0 {
		return []Point{}
	}
	alpha, beta := stat.LinearRegression(regressors, ys, nil, false)

	out := make([]Point, len(xs))
	for i := range xs {
		out[i] = Point{X: xs[i], Y: alpha + beta*regressors[i]}
	}
	return out
}

func rolling(window int, agg func([]float64) float64) fitFunc {
	return func(points []Point) []Point {
		if len(points) < window {
			return []Point{}
		}
		_, ys := split(points)

		out := make([]Point, 0, len(points)-window+1)
		for i := window - 1; i < len(points); i++ {
			out = append(out, Point{X: points[i].X, Y: agg(ys[i-window+1 : i+1])})
		}
		return out
	}
}

func mean(vals []float64) float64 {
	return stat.Mean(vals, nil)
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func expandingMax(points []Point) []Point {
	out := make([]Point, len(points))
	running := math.Inf(-1)
	for i, p := range points {
		running = math.Max(running, p.Y)
		out[i] = Point{X: p.X, Y: running}
	}
	return out
}

// ewma is the adjusted exponentially weighted mean: every observation keeps
// weight (1-alpha)^age and the sum is normalised by the total weight.
func ewma(halfLife float64) fitFunc {
	alpha := 1 - math.Exp(-math.Ln2/halfLife)
	decay := 1 - alpha

	return func(points []Point) []Point {
		out := make([]Point, len(points))
		var num, den float64
		for i, p := range points {
			num = p.Y + decay*num
			den = 1 + decay*den
			out[i] = Point{X: p.X, Y: num / den}
		}
		return out
	}
}
