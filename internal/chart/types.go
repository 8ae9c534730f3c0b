// Package chart turns cleaned readings into renderer-agnostic chart
// descriptions: a scatter of two fields, optionally with a trend overlay.
package chart

// Axis types understood by the front end.
const (
	AxisLinear = "linear"
	AxisDate   = "date"
)

// Spec is a render-ready chart description.
type Spec struct {
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	XAxis  Axis     `json:"x_axis"`
	YAxis  Axis     `json:"y_axis"`
	Points []Point  `json:"points"`
	Trend  *Overlay `json:"trend,omitempty"`
	Style  Style    `json:"style"`
}

// Axis describes one chart axis. Date axes carry Unix milliseconds.
type Axis struct {
	Field    string `json:"field"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	ShowGrid bool   `json:"show_grid"`
}

// Point is a single plotted value.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Overlay is the fitted curve drawn over the scatter.
type Overlay struct {
	Mode   Mode    `json:"mode"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Style carries the colours and size a renderer should use.
type Style struct {
	Background string `json:"background"`
	GridColor  string `json:"grid_color"`
	TraceColor string `json:"trace_color"`
	FontColor  string `json:"font_color"`
	Height     int    `json:"height"`
}

// Theme is the styling injected into a Generator at startup.
type Theme struct {
	Background string
	GridLine   string
	Trace      string
	Trend      string
	Font       string
	Height     int
}

// DefaultTheme is the dark dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#252729",
		GridLine:   "#008019",
		Trace:      "#379C4B",
		Trend:      "#EB4034",
		Font:       "White",
		Height:     400,
	}
}
