package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// constClassifier always predicts the same class and records its input.
type constClassifier struct {
	class int
	err   error
	rows  [][]float64
	calls int
}

func (c *constClassifier) Predict(rows [][]float64) ([]int, error) {
	c.calls++
	c.rows = rows
	if c.err != nil {
		return nil, c.err
	}
	out := make([]int, len(rows))
	for i := range out {
		out[i] = c.class
	}
	return out, nil
}

func TestPredictor_IdleBeforeFirstClick(t *testing.T) {
	p := NewPredictor(&constClassifier{}, logger.Nop())

	cur := p.Current()
	assert.Equal(t, StateIdle, cur.State)
	assert.Equal(t, "Click the button to run forecasting model", cur.Text)
}

func TestPredictor_RainfallScenario(t *testing.T) {
	clf := &constClassifier{class: 1}
	p := NewPredictor(clf, logger.Nop())

	res, err := p.Run(DefaultRequest())
	require.NoError(t, err)

	assert.Equal(t, "Based on input data, the prediction is: Rainfall", res.Text)
	assert.Equal(t, StatePredicted, res.State)
	assert.Equal(t, [][]float64{{0, 0, 0.5, 5, 180, 5, 1000}}, clf.rows)
	assert.Equal(t, res, p.Current())
}

func TestPredictor_EveryClickCallsTheModel(t *testing.T) {
	clf := &constClassifier{class: 2}
	p := NewPredictor(clf, logger.Nop())

	for i := 0; i < 3; i++ {
		res, err := p.Run(DefaultRequest())
		require.NoError(t, err)
		assert.Equal(t, "Snowfall", res.Label)
	}
	assert.Equal(t, 3, clf.calls)
}

func TestPredictor_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"humidity above 1", func(r *Request) { r.Humidity = 1.5 }},
		{"bearing negative", func(r *Request) { r.WindBearing = -10 }},
		{"pressure too low", func(r *Request) { r.Pressure = 900 }},
		{"temperature NaN", func(r *Request) { r.Temperature = math.NaN() }},
		{"visibility infinite", func(r *Request) { r.Visibility = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &constClassifier{}
			p := NewPredictor(clf, logger.Nop())
			req := DefaultRequest()
			tt.mutate(&req)

			_, err := p.Run(req)
			var inErr *InputError
			require.ErrorAs(t, err, &inErr)
			assert.Zero(t, clf.calls)
			assert.Equal(t, StateIdle, p.Current().State)
		})
	}
}

func TestPredictor_UnknownClass(t *testing.T) {
	p := NewPredictor(&constClassifier{class: 3}, logger.Nop())

	_, err := p.Run(DefaultRequest())
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestPredictor_ClassifierFailure(t *testing.T) {
	boom := errors.New("boom")
	p := NewPredictor(&constClassifier{err: boom}, logger.Nop())

	_, err := p.Run(DefaultRequest())
	assert.ErrorIs(t, err, boom)
}
