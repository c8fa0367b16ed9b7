// internal/domain/cycle/classify.go
package cycle

import (
	"errors"
	"fmt"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// GracePeriodMonths is how long an unsettled meeting may stay open, counted
// from its ideal date, before the client needs attention.
const GracePeriodMonths = 4

// ErrEnrollmentDayUnknown is returned when an open meeting's ideal date
// cannot be computed because the client has no valid enrollment day.
var ErrEnrollmentDayUnknown = errors.New("enrollment day unknown")

// IsInactive reports whether any record, inside the cycle or not, closed the
// contract.
func IsInactive(c client.Client) bool {
	for _, rec := range c.StatusByMonth {
		if rec.Status == client.StatusClosedContract {
			return true
		}
	}
	return false
}

// NeedsAttention reports whether an active client has a meeting that is
// neither done nor closed GracePeriodMonths after its ideal date. The ideal
// date always uses the enrollment day, never a recorded custom day. All five
// months are scanned since an early meeting can be overdue while later ones
// are not yet due.
//
// When an open meeting's deadline cannot be computed the result is false with
// ErrEnrollmentDayUnknown, so callers can flag the record instead of treating
// the client as on track.
func NeedsAttention(c client.Client, now time.Time) (bool, error) {
	if IsInactive(c) {
		return false, nil
	}
	months, err := New(c.EnrollmentMonth)
	if err != nil {
		return false, fmt.Errorf("client %s: %w", c.ID, err)
	}
	loc := now.Location()
	var unresolved error
	for _, m := range months {
		// An unknown literal is not settled; it is counted as open.
		res, _ := ResolveStatus(c, m)
		if res.Status.Settled() {
			continue
		}
		if !client.ValidDay(c.EnrollmentDay) {
			if unresolved == nil {
				unresolved = fmt.Errorf("client %s month %s: %w", c.ID, m, ErrEnrollmentDayUnknown)
			}
			continue
		}
		ideal := m.Date(c.EnrollmentDay, loc)
		deadline := calendar.AddMonthsKeepDay(ideal, GracePeriodMonths)
		if !now.Before(deadline) {
			return true, nil
		}
	}
	return false, unresolved
}
