package forecast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// humidity split: dry air predicts none, humid air rain or snow depending on temperature.
const testForest = `{
  "features": ["Temperature", "Apparent Temperature", "Humidity", "Wind Speed", "Wind Bearing", "Visibility", "Pressure"],
  "classes": ["none", "rain", "snow"],
  "trees": [
    {"nodes": [
      {"feature": 2, "threshold": 0.6, "left": 1, "right": 2},
      {"feature": -1, "class": 0},
      {"feature": 0, "threshold": 0, "left": 3, "right": 4},
      {"feature": -1, "class": 2},
      {"feature": -1, "class": 1}
    ]},
    {"nodes": [
      {"feature": 0, "threshold": 0, "left": 1, "right": 2},
      {"feature": -1, "class": 2},
      {"feature": -1, "class": 1}
    ]},
    {"nodes": [{"feature": -1, "class": 0}]}
  ]
}`

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadForestAndPredict(t *testing.T) {
	f, err := LoadForest(writeModel(t, testForest))
	require.NoError(t, err)

	got, err := f.Predict([][]float64{
		{10, 9, 0.3, 5, 180, 10, 1010},  // dry, warm: none, rain, none
		{10, 9, 0.9, 5, 180, 10, 1010},  // humid, warm: rain, rain, none
		{-5, -8, 0.9, 5, 180, 10, 1010}, // humid, cold: snow, snow, none
		{-5, -8, 0.3, 5, 180, 10, 1010}, // dry, cold: none, snow, none
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, got)
}

func TestForestPredict_WrongWidth(t *testing.T) {
	f, err := LoadForest(writeModel(t, testForest))
	require.NoError(t, err)

	_, err = f.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestLoadForest_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"wrong features": `{"features": ["a"], "classes": ["none"], "trees": [{"nodes": [{"feature": -1}]}]}`,
		"no trees": `{"features": ["Temperature", "Apparent Temperature", "Humidity", "Wind Speed", "Wind Bearing", "Visibility", "Pressure"],
			"classes": ["none"], "trees": []}`,
		"cycle": `{"features": ["Temperature", "Apparent Temperature", "Humidity", "Wind Speed", "Wind Bearing", "Visibility", "Pressure"],
			"classes": ["none"], "trees": [{"nodes": [{"feature": 0, "threshold": 1, "left": 0, "right": 0}]}]}`,
		"class out of range": `{"features": ["Temperature", "Apparent Temperature", "Humidity", "Wind Speed", "Wind Bearing", "Visibility", "Pressure"],
			"classes": ["none"], "trees": [{"nodes": [{"feature": -1, "class": 4}]}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadForest(writeModel(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadForest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestBundledModelLoads(t *testing.T) {
	f, err := LoadForest(filepath.Join("..", "..", "model", "weathermodel.json"))
	require.NoError(t, err)
	assert.Len(t, f.Classes, len(Labels))
}
