package weather

import (
	"fmt"
	"strings"
	"time"
)

// canonicalLayout is the form Clean writes back into Reading.ReadingTime.
const canonicalLayout = time.RFC3339Nano

// Layouts accepted for reading_time. Values without an offset are taken as UTC.
var readingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseError is returned by Clean when a reading_time value cannot be parsed.
type ParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: unparseable reading_time %q: %v", e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseReadingTime parses a stored reading_time into an absolute UTC timestamp.
func ParseReadingTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range readingTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Clean normalises a batch of readings: reading_time becomes a canonical UTC
// timestamp and a missing precip_type becomes PrecipNone. The whole batch fails
// on the first unparseable timestamp. Applying Clean twice is a no-op.
func Clean(rows []Reading) ([]Reading, error) {
	cleaned := make([]Reading, len(rows))
	for i, r := range rows {
		t, err := ParseReadingTime(r.ReadingTime)
		if err != nil {
			return nil, &ParseError{Row: i, Value: r.ReadingTime, Err: err}
		}
		r.Time = t
		r.ReadingTime = t.Format(canonicalLayout)

		if r.Precip() == "" {
			r.PrecipType = Precipitation(PrecipNone)
		}
		cleaned[i] = r
	}
	return cleaned, nil
}
