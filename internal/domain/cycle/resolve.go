package cycle

import (
	"fmt"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// Resolution is the effective state of one month for a client.
// Day is 0 when neither a custom day nor the enrollment day is known.
type Resolution struct {
	Status client.Status
	Day    int
}

func (r Resolution) DayKnown() bool {
	return r.Day > 0
}

// ResolveStatus applies the override-or-default policy for month m. It is
// defined for any month, in or out of the cycle. The Resolution is always
// filled in; a non-nil error wraps client.ErrUnknownStatus when the stored
// literal is outside the known set, and the raw literal is kept in Status.
func ResolveStatus(c client.Client, m calendar.Month) (Resolution, error) {
	res := Resolution{Status: client.StatusPending, Day: knownDay(c.EnrollmentDay)}
	rec, ok := c.StatusByMonth[m]
	if !ok {
		return res, nil
	}
	res.Status = rec.Status
	if rec.CustomDate != nil {
		res.Day = knownDay(*rec.CustomDate)
	}
	if !res.Status.Valid() {
		return res, fmt.Errorf("client %s month %s: %w: %q", c.ID, m, client.ErrUnknownStatus, string(rec.Status))
	}
	return res, nil
}

func knownDay(day int) int {
	if client.ValidDay(day) {
		return day
	}
	return 0
}
