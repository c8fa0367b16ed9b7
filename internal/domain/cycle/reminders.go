package cycle

import (
	"slices"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// Reminder is an upcoming, still pending meeting.
type Reminder struct {
	Client   client.Client
	Meeting  int // 1..Length
	Label    string
	Date     time.Time
	DaysLeft int
}

// UpcomingReminders lists meetings of active clients whose effective date
// falls between today and today+horizonDays, inclusive, and that have no
// record or a PENDING one. Meetings with an unknown day are left out.
func UpcomingReminders(clients []client.Client, now time.Time, horizonDays int) []Reminder {
	var out []Reminder
	for _, c := range clients {
		if IsInactive(c) {
			continue
		}
		months, err := New(c.EnrollmentMonth)
		if err != nil {
			continue
		}
		for idx, m := range months {
			res, err := ResolveStatus(c, m)
			if err != nil || res.Status != client.StatusPending || !res.DayKnown() {
				continue
			}
			date := m.Date(res.Day, now.Location())
			left := calendar.DaysBetween(now, date)
			if left < 0 || left > horizonDays {
				continue
			}
			out = append(out, Reminder{
				Client:   c,
				Meeting:  idx + 1,
				Label:    Label(idx),
				Date:     date,
				DaysLeft: left,
			})
		}
	}
	slices.SortStableFunc(out, func(a, b Reminder) int {
		if a.DaysLeft != b.DaysLeft {
			return a.DaysLeft - b.DaysLeft
		}
		return Compare(a.Client, b.Client)
	})
	return out
}
