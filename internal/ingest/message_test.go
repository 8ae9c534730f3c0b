package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestParseMessage(t *testing.T) {
	r, err := ParseMessage([]byte("2016-12-11 15:00:00,Partly Cloudy,rain,19.233334,16.2701,0.49,8.33,249,10.34,1015.33"))
	require.NoError(t, err)

	assert.Equal(t, "2016-12-11 15:00:00", r.ReadingTime)
	assert.Equal(t, "Partly Cloudy", r.Summary)
	assert.Equal(t, weather.PrecipRain, r.Precip())
	assert.Equal(t, 19.233334, r.Temperature)
	assert.Equal(t, 0.49, r.Humidity)
	assert.Equal(t, 249.0, r.WindBearing)
	assert.Equal(t, 1015.33, r.Pressure)
}

func TestParseMessage_EmptyPrecipIsNull(t *testing.T) {
	r, err := ParseMessage([]byte("2016-10-15 15:00:00,Overcast,,20.2,19.2,0.47,10.33,249,12.34,1011.33"))
	require.NoError(t, err)
	assert.False(t, r.PrecipType.Valid)
}

func TestParseMessage_QuotedSummary(t *testing.T) {
	r, err := ParseMessage([]byte(`2016-10-15 15:00:00,"Breezy, Overcast",snow,1,1,0.9,20,10,5,990`))
	require.NoError(t, err)
	assert.Equal(t, "Breezy, Overcast", r.Summary)
	assert.Equal(t, weather.PrecipSnow, r.Precip())
}

func TestParseMessage_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"too few":      "2016-10-15 15:00:00,Overcast,,20.2",
		"too many":     "2016-10-15 15:00:00,Overcast,,20.2,19.2,0.47,10.33,249,12.34,1011.33,extra",
		"not a number": "2016-10-15 15:00:00,Overcast,,warm,19.2,0.47,10.33,249,12.34,1011.33",
		"infinite":     "2016-10-15 15:00:00,Clear,,Inf,19,0.4,10,249,12,1011",
		"negative inf": "2016-10-15 15:00:00,Clear,,20,-Inf,0.4,10,249,12,1011",
		"nan humidity": "2016-10-15 15:00:00,Clear,,20,19,NaN,10,249,12,1011",
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMessage([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestFormatMessage(t *testing.T) {
	for _, r := range SampleReadings() {
		payload, err := FormatMessage(r)
		require.NoError(t, err)

		got, err := ParseMessage(payload)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	payload, err := FormatMessage(SampleReadings()[0])
	require.NoError(t, err)
	assert.Equal(t, "2016-10-15 15:00:00,Overcast,,20.233334,19.2701,0.47,10.33,249,12.34,1011.33", string(payload))
}
