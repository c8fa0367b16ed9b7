// internal/domain/client/client.go
package client

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"meeting_cycle_bot/internal/domain/calendar"
)

var (
	ErrInvalidDay      = errors.New("day of month must be between 1 and 31")
	ErrInvalidSequence = errors.New("sequence number must be positive")
	ErrEmptyName       = errors.New("client name must not be empty")
)

// MeetingRecord is the outcome stored for one month of a client.
// A nil CustomDate means the client's enrollment day applies.
type MeetingRecord struct {
	Status     Status `json:"status"`
	CustomDate *int   `json:"customDate,omitempty"`
}

// Client is one consulting engagement.
type Client struct {
	ID              string
	Name            string
	PhoneDigits     string // last digits only, for display and search
	EnrollmentMonth calendar.Month
	EnrollmentDay   int // 0 when unknown
	SequenceInMonth int
	// StatusByMonth is sparse and may hold months outside the cycle.
	StatusByMonth map[calendar.Month]MeetingRecord
}

// Clone returns a deep copy; mutations never share maps or pointers with
// the original value.
func (c Client) Clone() Client {
	out := c
	out.StatusByMonth = make(map[calendar.Month]MeetingRecord, len(c.StatusByMonth))
	for m, rec := range c.StatusByMonth {
		if rec.CustomDate != nil {
			day := *rec.CustomDate
			rec.CustomDate = &day
		}
		out.StatusByMonth[m] = rec
	}
	return out
}

// StatusPatch is a partial update of one month's record.
type StatusPatch struct {
	Status          *Status
	CustomDate      *int
	ClearCustomDate bool
}

// ApplyStatusUpdate merges p into the record for month, creating a PENDING
// record when none exists. c is left untouched. On error nothing is applied.
func ApplyStatusUpdate(c Client, month calendar.Month, p StatusPatch) (Client, error) {
	if month.IsZero() {
		return Client{}, fmt.Errorf("%w: zero month", calendar.ErrInvalidMonth)
	}
	if p.Status != nil && !p.Status.Valid() {
		return Client{}, fmt.Errorf("%w: %q", ErrUnknownStatus, string(*p.Status))
	}
	if p.CustomDate != nil && !ValidDay(*p.CustomDate) {
		return Client{}, fmt.Errorf("%w: %d", ErrInvalidDay, *p.CustomDate)
	}

	out := c.Clone()
	rec, ok := out.StatusByMonth[month]
	if !ok {
		rec = MeetingRecord{Status: StatusPending}
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	switch {
	case p.ClearCustomDate:
		rec.CustomDate = nil
	case p.CustomDate != nil:
		day := *p.CustomDate
		rec.CustomDate = &day
	}
	out.StatusByMonth[month] = rec
	return out, nil
}

// Details are the fields editable from the client form.
type Details struct {
	Name            string
	Phone           string
	EnrollmentMonth calendar.Month
	EnrollmentDay   int
}

// ApplyDetails replaces name, phone and enrollment anchor. Meeting records are
// kept as they are, keyed by month.
func ApplyDetails(c Client, d Details) (Client, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Client{}, ErrEmptyName
	}
	if d.EnrollmentMonth.IsZero() {
		return Client{}, fmt.Errorf("%w: zero month", calendar.ErrInvalidMonth)
	}
	if !ValidDay(d.EnrollmentDay) {
		return Client{}, fmt.Errorf("%w: %d", ErrInvalidDay, d.EnrollmentDay)
	}
	out := c.Clone()
	out.Name = name
	out.PhoneDigits = PhoneSuffix(d.Phone)
	out.EnrollmentMonth = d.EnrollmentMonth
	out.EnrollmentDay = d.EnrollmentDay
	return out, nil
}

// ApplySequence sets the display order within the enrollment month.
func ApplySequence(c Client, seq int) (Client, error) {
	if seq < 1 {
		return Client{}, fmt.Errorf("%w: %d", ErrInvalidSequence, seq)
	}
	out := c.Clone()
	out.SequenceInMonth = seq
	return out, nil
}

// PhoneSuffix keeps the last four digits of a phone number.
func PhoneSuffix(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) > 4 {
		return digits[len(digits)-4:]
	}
	return digits
}

func ValidDay(day int) bool {
	return day >= 1 && day <= 31
}
