// internal/domain/cycle/cycle.go
package cycle

import (
	"fmt"

	"meeting_cycle_bot/internal/domain/calendar"
)

// Length is the number of meetings in an engagement cycle.
const Length = 5

var meetingLabels = [Length]string{
	"Primeira Reunião",
	"Segunda Reunião",
	"Terceira Reunião",
	"Quarta Reunião",
	"Quinta Reunião",
}

// Cycle holds the months of meetings 1 through 5, in order. It is derived
// from the enrollment month on demand and never stored.
type Cycle [Length]calendar.Month

// New builds the cycle anchored at start.
func New(start calendar.Month) (Cycle, error) {
	var c Cycle
	if start.IsZero() {
		return c, fmt.Errorf("%w: cycle needs an enrollment month", calendar.ErrInvalidMonth)
	}
	for i := range c {
		c[i] = start.AddMonths(i)
	}
	return c, nil
}

// Index returns the zero-based meeting index of m within the cycle.
func (c Cycle) Index(m calendar.Month) (int, bool) {
	for i, cm := range c {
		if cm == m {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether a meeting is due in m.
func (c Cycle) Contains(m calendar.Month) bool {
	_, ok := c.Index(m)
	return ok
}

// Label names the meeting at a zero-based index.
func Label(index int) string {
	if index < 0 || index >= Length {
		return ""
	}
	return meetingLabels[index]
}

// Window returns n consecutive months starting at start.
func Window(start calendar.Month, n int) []calendar.Month {
	if n <= 0 || start.IsZero() {
		return nil
	}
	out := make([]calendar.Month, n)
	for i := range out {
		out[i] = start.AddMonths(i)
	}
	return out
}
