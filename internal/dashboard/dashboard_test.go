package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type stubLoader struct {
	mu      sync.Mutex
	rows    []weather.Reading
	fail    func(w weather.Window) error
	windows []weather.Window
}

func (s *stubLoader) Load(ctx context.Context, w weather.Window) ([]weather.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, w)
	if s.fail != nil {
		if err := s.fail(w); err != nil {
			return nil, err
		}
	}
	return s.rows, nil
}

func (s *stubLoader) seen() []weather.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]weather.Window(nil), s.windows...)
}

func sampleRows() []weather.Reading {
	t0 := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	return []weather.Reading{
		{ID: 1, Time: t0, Temperature: 10, Humidity: 0.5},
		{ID: 2, Time: t0.Add(time.Hour), Temperature: 12, Humidity: 0.6},
	}
}

func newTestDashboard(t *testing.T, loader Loader) *Dashboard {
	t.Helper()
	d, err := New(loader, chart.NewGenerator(chart.DefaultTheme()), Controls{RowCount: 5000}, logger.Nop())
	require.NoError(t, err)
	return d
}

func TestNew_RejectsInvalidControls(t *testing.T) {
	_, err := New(&stubLoader{}, chart.NewGenerator(chart.DefaultTheme()), Controls{RowCount: 10}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidControls)
}

func TestNew_PanelsStartPending(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})

	views := d.Views()
	require.Len(t, views, 6)
	for _, v := range views {
		assert.Equal(t, StatusPending, v.Status)
		assert.Zero(t, v.RequestID)
	}

	assert.Equal(t, "Temperature (C) vs Reading Time", views[0].Caption)
	assert.Equal(t, "Temperature (C) VS Reading Time", views[3].Caption)
	assert.Equal(t, "Data for year 2006", views[4].Caption)
	assert.Equal(t, "Ordinary Least Squares Trend for Temperature (C) vs Reading Time", views[5].Caption)
}

func TestRefresh_ScatterOfTwoRows(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{rows: sampleRows()})

	v, err := d.Refresh(context.Background(), PanelTemperature, TriggerTick)
	require.NoError(t, err)

	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, uint64(1), v.RequestID)
	assert.Equal(t, TriggerTick, v.Trigger)
	require.NotNil(t, v.Chart)
	require.Len(t, v.Chart.Points, 2)
	assert.Equal(t, chart.AxisDate, v.Chart.XAxis.Type)
	assert.Equal(t, 12.0, v.Chart.Points[1].Y)
	assert.Equal(t, v.Caption, v.Chart.Title)
}

func TestRefresh_EmptyTable(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})

	v, err := d.Refresh(context.Background(), PanelCustom, TriggerTick)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, v.Status)
	require.NotNil(t, v.Chart)
	assert.Empty(t, v.Chart.Points)
}

func TestViews_NonFiniteReadingDoesNotBreakSerialization(t *testing.T) {
	rows := sampleRows()
	rows[1].Temperature = math.Inf(1)
	d := newTestDashboard(t, &stubLoader{rows: rows})

	views := d.RefreshAll(context.Background(), TriggerTick)
	for _, v := range views {
		assert.Equal(t, StatusReady, v.Status, v.Panel)
	}

	_, err := json.Marshal(map[string]any{"panels": d.Views()})
	assert.NoError(t, err)

	v, err := d.View(PanelTemperature)
	require.NoError(t, err)
	assert.Len(t, v.Chart.Points, 1)
}

func TestRefresh_WindowFollowsControls(t *testing.T) {
	loader := &stubLoader{}
	d := newTestDashboard(t, loader)
	ctx := context.Background()

	_, err := d.Refresh(ctx, PanelTemperature, TriggerTick)
	require.NoError(t, err)
	_, err = d.Refresh(ctx, PanelYearly, TriggerTick)
	require.NoError(t, err)

	_, err = d.SetControls(ctx, Controls{RowCount: 200, ShowAll: true})
	require.NoError(t, err)

	seen := loader.seen()
	require.Len(t, seen, 7, "controls refresh every panel but the yearly one")
	assert.Equal(t, weather.MostRecent(5000), seen[0])
	assert.Equal(t, weather.InYear("2006"), seen[1])
	for _, w := range seen[2:] {
		assert.Equal(t, weather.AllRows(), w)
	}
	assert.Equal(t, Controls{RowCount: 200, ShowAll: true}, d.Controls())
}

func TestSetControls_Invalid(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})

	_, err := d.SetControls(context.Background(), Controls{RowCount: 50001})
	assert.ErrorIs(t, err, ErrInvalidControls)
	assert.Equal(t, 5000, d.Controls().RowCount)
}

func TestRefresh_ErrorState(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"schema", &store.Error{Kind: store.KindSchema, Op: "fetch_recent", Err: errors.New("no such table")}, "SchemaError"},
		{"auth", &store.Error{Kind: store.KindAuth, Op: "fetch_recent", Err: errors.New("denied")}, "AuthError"},
		{"parse", &weather.ParseError{Row: 3, Value: "garbage", Err: errors.New("bad")}, "ParseError"},
		{"other", errors.New("boom"), "OtherError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &stubLoader{fail: func(weather.Window) error { return tt.err }}
			d := newTestDashboard(t, loader)

			v, err := d.Refresh(context.Background(), PanelTemperature, TriggerTick)
			require.NoError(t, err)
			assert.Equal(t, StatusError, v.Status)
			assert.Nil(t, v.Chart)
			require.NotNil(t, v.Error)
			assert.Equal(t, tt.kind, v.Error.Kind)
			assert.Equal(t, tt.err.Error(), v.Error.Message)
		})
	}
}

func TestRefreshAll_PanelsAreIndependent(t *testing.T) {
	loader := &stubLoader{
		rows: sampleRows(),
		fail: func(w weather.Window) error {
			if w.Kind == weather.WindowYear {
				return &store.Error{Kind: store.KindOther, Op: "fetch_by_year", Err: errors.New("timeout")}
			}
			return nil
		},
	}
	d := newTestDashboard(t, loader)

	views := d.RefreshAll(context.Background(), TriggerTick)
	require.Len(t, views, 6)
	for _, v := range views {
		if v.Panel == PanelYearly {
			assert.Equal(t, StatusError, v.Status)
			continue
		}
		assert.Equal(t, StatusReady, v.Status, v.Panel)
	}
}

func TestSelect(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{rows: sampleRows()})
	ctx := context.Background()

	v, err := d.Select(ctx, PanelCustom, Selection{X: weather.FieldTemperature, Y: weather.FieldHumidity})
	require.NoError(t, err)
	assert.Equal(t, "Humidity VS Temperature (C)", v.Caption)
	assert.Equal(t, TriggerSelection, v.Trigger)
	assert.Equal(t, 0.6, v.Chart.Points[1].Y)

	v, err = d.Select(ctx, PanelTrend, Selection{Trend: chart.ModeEWMA})
	require.NoError(t, err)
	assert.Equal(t, weather.FieldReadingTime, v.Selection.X, "empty fields keep their value")
	assert.Equal(t, "Exponentially-Weighted Moving Average Trend for Temperature (C) vs Reading Time", v.Caption)
	require.NotNil(t, v.Chart.Trend)
	assert.Equal(t, chart.ModeEWMA, v.Chart.Trend.Mode)

	v, err = d.Select(ctx, PanelYearly, Selection{Year: "2012"})
	require.NoError(t, err)
	assert.Equal(t, "Data for year 2012", v.Caption)
}

func TestSelect_Rejected(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})
	ctx := context.Background()

	tests := []struct {
		name  string
		panel PanelID
		sel   Selection
	}{
		{"fixed panel", PanelTemperature, Selection{X: weather.FieldHumidity}},
		{"unknown field", PanelCustom, Selection{X: "dew_point"}},
		{"unknown trend", PanelTrend, Selection{Trend: "spline"}},
		{"trend on custom", PanelCustom, Selection{Trend: chart.ModeOLS}},
		{"bad year", PanelYearly, Selection{Year: "16"}},
		{"year on trend", PanelTrend, Selection{Year: "2010"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Select(ctx, tt.panel, tt.sel)
			assert.ErrorIs(t, err, ErrInvalidSelection)
		})
	}

	v, err := d.View(PanelCustom)
	require.NoError(t, err)
	assert.Equal(t, weather.FieldReadingTime, v.Selection.X)
}

func TestUnknownPanel(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})

	_, err := d.Refresh(context.Background(), "wind", TriggerManual)
	assert.ErrorIs(t, err, ErrUnknownPanel)
	_, err = d.View("wind")
	assert.ErrorIs(t, err, ErrUnknownPanel)
	_, err = d.Select(context.Background(), "wind", Selection{})
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

// gatedLoader blocks each call until its gate is released, returning rows
// tagged with the call index.
type gatedLoader struct {
	entered chan int
	gates   []chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedLoader(n int) *gatedLoader {
	g := &gatedLoader{entered: make(chan int, n)}
	for i := 0; i < n; i++ {
		g.gates = append(g.gates, make(chan struct{}))
	}
	return g
}

func (g *gatedLoader) Load(ctx context.Context, w weather.Window) ([]weather.Reading, error) {
	g.mu.Lock()
	i := g.calls
	g.calls++
	g.mu.Unlock()

	g.entered <- i
	<-g.gates[i]
	return []weather.Reading{{ID: int64(i), Temperature: float64(i)}}, nil
}

func TestRefresh_DiscardsStaleResult(t *testing.T) {
	loader := newGatedLoader(2)
	d := newTestDashboard(t, loader)
	ctx := context.Background()

	older := make(chan View, 1)
	go func() {
		v, _ := d.Refresh(ctx, PanelTemperature, TriggerTick)
		older <- v
	}()
	require.Equal(t, 0, <-loader.entered)

	newer := make(chan View, 1)
	go func() {
		v, _ := d.Refresh(ctx, PanelTemperature, TriggerTick)
		newer <- v
	}()
	require.Equal(t, 1, <-loader.entered)

	// The second request completes first.
	close(loader.gates[1])
	v := <-newer
	assert.Equal(t, uint64(2), v.RequestID)

	close(loader.gates[0])
	v = <-older
	assert.Equal(t, uint64(2), v.RequestID, "late result of request 1 must not replace request 2")
	assert.Equal(t, 1.0, v.Chart.Points[0].Y)

	current, err := d.View(PanelTemperature)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current.RequestID)
}

func TestOptions(t *testing.T) {
	d := newTestDashboard(t, &stubLoader{})

	opts := d.Options()
	assert.Len(t, opts.Panels, 6)
	assert.Len(t, opts.Fields, 8)
	assert.Equal(t, Option{Value: "pressure", Label: "Pressure (hPA)"}, opts.Fields[7])
	assert.Len(t, opts.Trends, 6)
	assert.Equal(t, "2006", opts.Years[0])
	assert.Equal(t, Range{Min: 950, Max: 1050, Step: 5}, opts.Sliders["pressure"])
	assert.Equal(t, Range{Min: 0, Max: 1, Step: 0.05}, opts.Sliders["humidity"])
	assert.Equal(t, Range{Min: 0, Max: 360, Step: 30}, opts.Sliders["wind_bearing"])
	assert.Equal(t, Range{Min: MinRowCount, Max: MaxRowCount, Step: 300}, opts.RowCount)
}
