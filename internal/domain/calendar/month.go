// internal/domain/calendar/month.go
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned for month keys that are not of the form YYYY-MM
// with a month between 01 and 12.
var ErrInvalidMonth = errors.New("invalid month key")

// monthNames are the pt-BR month names used in labels shown to staff.
var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Month identifies a calendar month independent of day and location.
// The zero value is not a valid month; use Parse, New or Of to build one.
type Month struct {
	year  int
	month time.Month
}

// New builds a Month from its parts, rejecting anything outside 0001-01..9999-12.
func New(year int, month time.Month) (Month, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return Month{}, fmt.Errorf("%w: year %d month %d", ErrInvalidMonth, year, month)
	}
	return Month{year: year, month: month}, nil
}

// Of returns the month containing t, in t's location.
func Of(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// Parse reads a canonical "YYYY-MM" key. It never normalizes: "2025-1",
// "2025-13" and "2025/01" are all rejected.
func Parse(s string) (Month, error) {
	if len(s) != 7 || s[4] != '-' {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	year, ok := digits(s[:4])
	if !ok {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	month, ok := digits(s[5:])
	if !ok {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	m, err := New(year, time.Month(month))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return m, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Month {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func digits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (m Month) Year() int           { return m.year }
func (m Month) Month() time.Month   { return m.month }
func (m Month) IsZero() bool        { return m.month == 0 }
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }
func (m Month) After(o Month) bool  { return m.Compare(o) > 0 }

// Compare orders months chronologically, returning -1, 0 or +1.
func (m Month) Compare(o Month) int {
	a, b := m.index(), o.index()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m Month) index() int {
	return m.year*12 + int(m.month) - 1
}

// String renders the canonical zero-padded key, so lexical order of keys
// equals chronological order.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// Label renders the month for people, e.g. "Março 2025".
func (m Month) Label() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", monthNames[m.month-1], m.year)
}

// AddMonths shifts m by delta whole months; delta may be negative.
// It panics on the zero Month, which no parser produces.
func (m Month) AddMonths(delta int) Month {
	if m.IsZero() {
		panic("calendar: AddMonths on zero Month")
	}
	idx := m.index() + delta
	return Month{year: idx / 12, month: time.Month(idx%12 + 1)}
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return time.Date(m.year, m.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns midnight of the given day of m in loc. Days past the end of
// the month are clamped to its last day, days below 1 to the first.
func (m Month) Date(day int, loc *time.Location) time.Time {
	if day < 1 {
		day = 1
	}
	if last := m.DaysIn(); day > last {
		day = last
	}
	return time.Date(m.year, m.month, day, 0, 0, 0, 0, loc)
}

func (m Month) MarshalText() ([]byte, error) {
	if m.IsZero() {
		return nil, fmt.Errorf("%w: zero month", ErrInvalidMonth)
	}
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
