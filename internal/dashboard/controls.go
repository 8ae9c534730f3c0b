package dashboard

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Row-count slider bounds.
const (
	MinRowCount = 100
	MaxRowCount = 50000
)

// Controls are the dashboard-wide window controls.
type Controls struct {
	RowCount int  `json:"row_count" validate:"gte=100,lte=50000"`
	ShowAll  bool `json:"show_all"`
}

var validate = validator.New()

// Validate checks the row count against the slider bounds.
func (c Controls) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: row_count must be between %d and %d", ErrInvalidControls, MinRowCount, MaxRowCount)
	}
	return nil
}

// Window is the fetch scope of the windowed panels. Show-all wins over the row count.
func (c Controls) Window() weather.Window {
	if c.ShowAll {
		return weather.AllRows()
	}
	return weather.MostRecent(c.RowCount)
}
