package cycle

import (
	"fmt"
	"slices"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// Overview is the headline count block shown on the dashboard.
type Overview struct {
	Month          calendar.Month
	Active         int
	Finalized      int
	NeedsAttention int
	Enrollments    int // clients enrolled in Month
}

func Summarize(clients []client.Client, month calendar.Month, now time.Time) Overview {
	o := Overview{Month: month}
	for _, c := range clients {
		if IsInactive(c) {
			o.Finalized++
		} else {
			o.Active++
		}
		if flag, err := NeedsAttention(c, now); err == nil && flag {
			o.NeedsAttention++
		}
		if c.EnrollmentMonth == month {
			o.Enrollments++
		}
	}
	return o
}

// NextSequence proposes the display order for a new client enrolled in month.
func NextSequence(clients []client.Client, month calendar.Month) int {
	highest := 0
	for _, c := range clients {
		if c.EnrollmentMonth == month && c.SequenceInMonth > highest {
			highest = c.SequenceInMonth
		}
	}
	return highest + 1
}

// Validate collects data-integrity problems of a stored client. An empty
// result means every derived view can be computed without guessing.
func Validate(c client.Client) []error {
	var problems []error
	if c.EnrollmentMonth.IsZero() {
		problems = append(problems, fmt.Errorf("client %s: %w: missing enrollment month", c.ID, calendar.ErrInvalidMonth))
	}
	if !client.ValidDay(c.EnrollmentDay) {
		problems = append(problems, fmt.Errorf("client %s: %w", c.ID, ErrEnrollmentDayUnknown))
	}
	months := make([]calendar.Month, 0, len(c.StatusByMonth))
	for m := range c.StatusByMonth {
		months = append(months, m)
	}
	slices.SortFunc(months, calendar.Month.Compare)
	for _, m := range months {
		rec := c.StatusByMonth[m]
		if !rec.Status.Valid() {
			problems = append(problems, fmt.Errorf("client %s month %s: %w: %q", c.ID, m, client.ErrUnknownStatus, string(rec.Status)))
		}
		if rec.CustomDate != nil && !client.ValidDay(*rec.CustomDate) {
			problems = append(problems, fmt.Errorf("client %s month %s: %w: %d", c.ID, m, client.ErrInvalidDay, *rec.CustomDate))
		}
	}
	return problems
}
