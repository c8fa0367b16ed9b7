// internal/domain/cycle/checklist.go
package cycle

import (
	"fmt"
	"strings"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// SubFilter narrows the pending side of a checklist.
type SubFilter string

const (
	SubFilterAll         SubFilter = "all"
	SubFilterPending     SubFilter = "pending"
	SubFilterNotDone     SubFilter = "not_done"
	SubFilterRescheduled SubFilter = "rescheduled"
)

func ParseSubFilter(s string) (SubFilter, error) {
	switch f := SubFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case SubFilterAll, SubFilterPending, SubFilterNotDone, SubFilterRescheduled:
		return f, nil
	case "":
		return SubFilterAll, nil
	default:
		return "", fmt.Errorf("unknown checklist filter %q", s)
	}
}

func (f SubFilter) allows(s client.Status) bool {
	switch f {
	case SubFilterPending:
		return s == client.StatusPending
	case SubFilterNotDone:
		return s == client.StatusNotDone
	case SubFilterRescheduled:
		return s == client.StatusRescheduled
	default:
		return true
	}
}

// Item is one client's meeting in the checklist month.
type Item struct {
	Client  client.Client
	Meeting int // 1..Length
	Label   string
	Status  client.Status
	Day     int // effective day, 0 when unknown
}

// Counts tallies the unfiltered pending side by status. Unrecognized counts
// records whose literal is outside the known set.
type Counts struct {
	All          int
	Pending      int
	NotDone      int
	Rescheduled  int
	Unrecognized int
}

type Checklist struct {
	Month     calendar.Month
	Pending   []Item // after the sub filter
	Completed []Item
	Counts    Counts
}

// BuildChecklist lists the meetings due in target for active clients. Every
// included client lands in exactly one of Pending (before sub filtering) or
// Completed. Clients without a valid enrollment month are skipped.
func BuildChecklist(clients []client.Client, target calendar.Month, sub SubFilter) Checklist {
	out := Checklist{Month: target}
	for _, c := range clients {
		if IsInactive(c) {
			continue
		}
		months, err := New(c.EnrollmentMonth)
		if err != nil {
			continue
		}
		idx, ok := months.Index(target)
		if !ok {
			continue
		}
		res, _ := ResolveStatus(c, target)
		item := Item{
			Client:  c,
			Meeting: idx + 1,
			Label:   Label(idx),
			Status:  res.Status,
			Day:     res.Day,
		}
		if res.Status.Settled() {
			out.Completed = append(out.Completed, item)
			continue
		}

		out.Counts.All++
		switch res.Status {
		case client.StatusPending:
			out.Counts.Pending++
		case client.StatusNotDone:
			out.Counts.NotDone++
		case client.StatusRescheduled:
			out.Counts.Rescheduled++
		default:
			out.Counts.Unrecognized++
		}
		if sub.allows(res.Status) {
			out.Pending = append(out.Pending, item)
		}
	}
	return out
}
