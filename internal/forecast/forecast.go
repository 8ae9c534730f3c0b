// Package forecast runs the precipitation classifier for one set of slider
// values at a time.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// FeatureNames is the column order the trained model expects.
var FeatureNames = []string{
	"Temperature",
	"Apparent Temperature",
	"Humidity",
	"Wind Speed",
	"Wind Bearing",
	"Visibility",
	"Pressure",
}

// Labels maps class indices to the sentence shown to the user.
var Labels = []string{"No Precipitation", "Rainfall", "Snowfall"}

const (
	idleText       = "Click the button to run forecasting model"
	predictionText = "Based on input data, the prediction is: %s"
)

// ErrUnknownClass is returned when the classifier yields an index with no label.
var ErrUnknownClass = errors.New("classifier returned an unknown class")

// Request holds the seven slider values. Ranges match the slider controls.
type Request struct {
	Temperature         float64 `json:"temperature" validate:"gte=-60,lte=60"`
	ApparentTemperature float64 `json:"apparent_temperature" validate:"gte=-60,lte=60"`
	Humidity            float64 `json:"humidity" validate:"gte=0,lte=1"`
	WindSpeed           float64 `json:"wind_speed" validate:"gte=0,lte=25"`
	WindBearing         float64 `json:"wind_bearing" validate:"gte=0,lte=360"`
	Visibility          float64 `json:"visibility" validate:"gte=0,lte=25"`
	Pressure            float64 `json:"pressure" validate:"gte=950,lte=1050"`
}

// DefaultRequest holds the initial slider positions.
func DefaultRequest() Request {
	return Request{
		Temperature:         0,
		ApparentTemperature: 0,
		Humidity:            0.5,
		WindSpeed:           5,
		WindBearing:         180,
		Visibility:          5,
		Pressure:            1000,
	}
}

// Features returns the values in model order.
func (r Request) Features() []float64 {
	return []float64{
		r.Temperature,
		r.ApparentTemperature,
		r.Humidity,
		r.WindSpeed,
		r.WindBearing,
		r.Visibility,
		r.Pressure,
	}
}

// InputError reports a malformed slider tuple.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

// Validate rejects non-finite or out-of-range values.
func (r Request) Validate() error {
	for i, v := range r.Features() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InputError{Field: FeatureNames[i], Reason: "not a finite number"}
		}
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &InputError{Field: fe.Field(), Reason: fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())}
		}
		return &InputError{Field: "request", Reason: err.Error()}
	}
	return nil
}

// State of the forecast panel.
type State string

const (
	StateIdle      State = "idle"
	StatePredicted State = "predicted"
)

// Result is what the forecast panel displays.
type Result struct {
	State       State     `json:"state"`
	Label       string    `json:"label,omitempty"`
	Text        string    `json:"text"`
	PredictedAt time.Time `json:"predicted_at,omitempty"`
}

// Predictor owns the classifier for the process lifetime. Every Run is an
// independent call; only the latest result is remembered for display.
type Predictor struct {
	clf Classifier
	l   *logger.Logger

	mu   sync.RWMutex
	last Result
}

func NewPredictor(clf Classifier, l *logger.Logger) *Predictor {
	return &Predictor{
		clf:  clf,
		l:    l,
		last: Result{State: StateIdle, Text: idleText},
	}
}

// Current returns the latest result, the idle prompt before any click.
func (p *Predictor) Current() Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run validates the request, calls the classifier on a single row and maps the
// class index to its label.
func (p *Predictor) Run(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	classes, err := p.clf.Predict([][]float64{req.Features()})
	if err != nil {
		return Result{}, fmt.Errorf("prediction failed: %w", err)
	}
	if len(classes) != 1 || classes[0] < 0 || classes[0] >= len(Labels) {
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownClass, classes)
	}

	label := Labels[classes[0]]
	res := Result{
		State:       StatePredicted,
		Label:       label,
		Text:        fmt.Sprintf(predictionText, label),
		PredictedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.last = res
	p.mu.Unlock()

	p.l.Info("forecast predicted", map[string]any{"label": label})
	return res, nil
}
