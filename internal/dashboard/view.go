package dashboard

import (
	"errors"
	"time"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Status of a panel view.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Trigger names what caused a recomputation.
type Trigger string

const (
	TriggerTick      Trigger = "tick"
	TriggerSelection Trigger = "selection"
	TriggerControls  Trigger = "controls"
	TriggerManual    Trigger = "manual"
)

// View is the rendered state of one panel.
type View struct {
	Panel      PanelID     `json:"panel"`
	Caption    string      `json:"caption"`
	Selection  Selection   `json:"selection"`
	Status     Status      `json:"status"`
	RequestID  uint64      `json:"request_id"`
	Trigger    Trigger     `json:"trigger,omitempty"`
	Chart      *chart.Spec `json:"chart,omitempty"`
	Error      *ViewError  `json:"error,omitempty"`
	RenderedAt time.Time   `json:"rendered_at"`
}

// ViewError is the error state shown in place of a chart.
type ViewError struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

const kindParse = "ParseError"

func newViewError(err error) *ViewError {
	return &ViewError{Message: err.Error(), Kind: errorKind(err)}
}

func errorKind(err error) string {
	if k, ok := store.KindOf(err); ok {
		return k.String()
	}
	var pe *weather.ParseError
	if errors.As(err, &pe) {
		return kindParse
	}
	return store.KindOther.String()
}
