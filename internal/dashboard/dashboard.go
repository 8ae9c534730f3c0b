// Package dashboard owns the panels and recomputes their views when a timer
// tick or a selector change triggers them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	ErrUnknownPanel     = errors.New("unknown panel")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidControls  = errors.New("invalid controls")
)

// Loader fetches and cleans the rows of one window.
type Loader interface {
	Load(ctx context.Context, w weather.Window) ([]weather.Reading, error)
}

type panel struct {
	def definition
	seq atomic.Uint64

	mu       sync.Mutex
	sel      Selection
	rendered uint64
	view     View
}

func (p *panel) selection() Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel
}

func (p *panel) current() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// commit replaces the view unless a newer request already rendered.
func (p *panel) commit(v View) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v.RequestID <= p.rendered {
		return false
	}
	p.rendered = v.RequestID
	p.view = v
	return true
}

// Dashboard holds every panel. Panels share no data: each recomputation runs
// the whole fetch-clean-generate pipeline on its own.
type Dashboard struct {
	loader Loader
	gen    *chart.Generator
	l      *logger.Logger

	mu       sync.RWMutex
	controls Controls

	order  []PanelID
	panels map[PanelID]*panel
}

// New creates a Dashboard with every panel pending and set to its defaults.
func New(loader Loader, gen *chart.Generator, controls Controls, l *logger.Logger) (*Dashboard, error) {
	if err := controls.Validate(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		loader:   loader,
		gen:      gen,
		l:        l,
		controls: controls,
		panels:   make(map[PanelID]*panel, len(definitions)),
	}
	for _, def := range definitions {
		d.order = append(d.order, def.id)
		d.panels[def.id] = &panel{
			def: def,
			sel: def.defaults,
			view: View{
				Panel:     def.id,
				Caption:   def.caption(def.defaults),
				Selection: def.defaults,
				Status:    StatusPending,
			},
		}
	}
	return d, nil
}

// Panels returns the panel ids in layout order.
func (d *Dashboard) Panels() []PanelID {
	return append([]PanelID(nil), d.order...)
}

// Controls returns the current window controls.
func (d *Dashboard) Controls() Controls {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.controls
}

// View returns the last committed view of a panel.
func (d *Dashboard) View(id PanelID) (View, error) {
	p, err := d.panel(id)
	if err != nil {
		return View{}, err
	}
	return p.current(), nil
}

// Views returns every panel view in layout order.
func (d *Dashboard) Views() []View {
	views := make([]View, 0, len(d.order))
	for _, id := range d.order {
		views = append(views, d.panels[id].current())
	}
	return views
}

// Refresh recomputes one panel and returns its current view. A result that
// finishes after a newer request for the same panel is dropped.
func (d *Dashboard) Refresh(ctx context.Context, id PanelID, trigger Trigger) (View, error) {
	p, err := d.panel(id)
	if err != nil {
		return View{}, err
	}

	reqID := p.seq.Add(1)
	v := d.render(ctx, p.def, p.selection(), d.Controls())
	v.RequestID = reqID
	v.Trigger = trigger

	if !p.commit(v) {
		d.l.Debug("discarded stale panel result", map[string]any{
			"panel":      string(id),
			"request_id": reqID,
		})
	} else if v.Error != nil {
		d.l.Warning("panel refresh failed", map[string]any{
			"panel": string(id),
			"kind":  v.Error.Kind,
			"error": v.Error.Message,
		})
	}
	return p.current(), nil
}

// RefreshAll recomputes every panel concurrently.
func (d *Dashboard) RefreshAll(ctx context.Context, trigger Trigger) []View {
	return d.refreshMany(ctx, d.order, trigger)
}

// Select updates a panel's selectors and recomputes it. Empty fields keep
// their current value.
func (d *Dashboard) Select(ctx context.Context, id PanelID, upd Selection) (View, error) {
	p, err := d.panel(id)
	if err != nil {
		return View{}, err
	}

	p.mu.Lock()
	next, err := p.def.merge(p.sel, upd)
	if err == nil {
		p.sel = next
	}
	p.mu.Unlock()
	if err != nil {
		return View{}, err
	}

	return d.Refresh(ctx, id, TriggerSelection)
}

// SetControls replaces the window controls and recomputes the panels that
// follow them.
func (d *Dashboard) SetControls(ctx context.Context, c Controls) ([]View, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.controls = c
	d.mu.Unlock()

	var ids []PanelID
	for _, id := range d.order {
		if d.panels[id].def.windowed() {
			ids = append(ids, id)
		}
	}
	return d.refreshMany(ctx, ids, TriggerControls), nil
}

func (d *Dashboard) refreshMany(ctx context.Context, ids []PanelID, trigger Trigger) []View {
	views := make([]View, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			views[i], _ = d.Refresh(ctx, id, trigger)
		}()
	}
	wg.Wait()
	return views
}

func (d *Dashboard) render(ctx context.Context, def definition, sel Selection, c Controls) View {
	v := View{
		Panel:      def.id,
		Caption:    def.caption(sel),
		Selection:  sel,
		RenderedAt: time.Now().UTC(),
	}

	rows, err := d.loader.Load(ctx, def.window(sel, c))
	if err != nil {
		return failed(v, err)
	}

	var spec *chart.Spec
	if def.kind == kindTrend {
		spec, err = d.gen.TrendScatter(rows, sel.X, sel.Y, sel.Trend)
	} else {
		spec, err = d.gen.Scatter(rows, sel.X, sel.Y)
		if spec != nil {
			spec.Title = v.Caption
		}
	}
	if err != nil {
		return failed(v, err)
	}

	v.Status = StatusReady
	v.Chart = spec
	return v
}

func failed(v View, err error) View {
	v.Status = StatusError
	v.Error = newViewError(err)
	return v
}

func (d *Dashboard) panel(id PanelID) (*panel, error) {
	p, ok := d.panels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanel, id)
	}
	return p, nil
}
