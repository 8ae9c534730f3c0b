package weather

import (
	"fmt"
	"strconv"
)

// WindowKind selects how many rows a fetch covers.
type WindowKind int

const (
	WindowAll WindowKind = iota
	WindowRecent
	WindowYear
)

// Window describes the scope of one fetch. It lives for a single recomputation.
type Window struct {
	Kind WindowKind
	N    int
	Year string
}

// AllRows selects the whole table.
func AllRows() Window {
	return Window{Kind: WindowAll}
}

// MostRecent selects the newest n rows.
func MostRecent(n int) Window {
	return Window{Kind: WindowRecent, N: n}
}

// InYear selects the rows of one calendar year.
func InYear(year string) Window {
	return Window{Kind: WindowYear, Year: year}
}

// Validate checks the window parameters.
func (w Window) Validate() error {
	switch w.Kind {
	case WindowAll:
		return nil
	case WindowRecent:
		if w.N <= 0 {
			return fmt.Errorf("row count must be positive, got %d", w.N)
		}
		return nil
	case WindowYear:
		_, err := ParseYear(w.Year)
		return err
	}
	return fmt.Errorf("unknown window kind %d", w.Kind)
}

func (w Window) String() string {
	switch w.Kind {
	case WindowRecent:
		return fmt.Sprintf("recent(%d)", w.N)
	case WindowYear:
		return fmt.Sprintf("year(%s)", w.Year)
	}
	return "all"
}

// ParseYear validates a 4-digit year prefix.
func ParseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("year must have 4 digits, got %q", s)
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}
