package cycle

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// Category selects clients by classification.
type Category string

const (
	CategoryAll            Category = "all"
	CategoryActive         Category = "active"
	CategoryFinalized      Category = "finalized"
	CategoryNeedsAttention Category = "needs_attention"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryAll, CategoryActive, CategoryFinalized, CategoryNeedsAttention:
		return c, nil
	default:
		return "", fmt.Errorf("unknown client category %q", s)
	}
}

// Filter is the listing filter. A zero Month matches any enrollment month and
// an empty Category behaves like CategoryAll.
type Filter struct {
	Search   string
	Month    calendar.Month
	Category Category
}

// MatchesFilter is the conjunction of the search, month and category tests.
// A client whose attention state cannot be computed does not match
// CategoryNeedsAttention.
func MatchesFilter(c client.Client, f Filter, now time.Time) bool {
	if f.Search != "" && !matchesSearch(c, f.Search) {
		return false
	}
	if !f.Month.IsZero() && c.EnrollmentMonth != f.Month {
		return false
	}
	switch f.Category {
	case CategoryActive:
		return !IsInactive(c)
	case CategoryFinalized:
		return IsInactive(c)
	case CategoryNeedsAttention:
		flag, err := NeedsAttention(c, now)
		return err == nil && flag
	default:
		return true
	}
}

// matchesSearch looks for the term in the name, ignoring case, and for its
// digits in the stored phone suffix, so a formatted number still matches.
func matchesSearch(c client.Client, search string) bool {
	if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
		return true
	}
	digits := client.PhoneSuffix(search)
	return digits != "" && strings.Contains(c.PhoneDigits, digits)
}

// Compare orders clients by enrollment month, then sequence number.
func Compare(a, b client.Client) int {
	if r := a.EnrollmentMonth.Compare(b.EnrollmentMonth); r != 0 {
		return r
	}
	return cmp.Compare(a.SequenceInMonth, b.SequenceInMonth)
}

// Sort orders clients in place for any listing.
func Sort(clients []client.Client) {
	slices.SortStableFunc(clients, Compare)
}

// Select returns the clients matching f, sorted.
func Select(clients []client.Client, f Filter, now time.Time) []client.Client {
	out := make([]client.Client, 0, len(clients))
	for _, c := range clients {
		if MatchesFilter(c, f, now) {
			out = append(out, c)
		}
	}
	Sort(out)
	return out
}
