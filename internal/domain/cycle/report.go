package cycle

import (
	"fmt"
	"strings"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// ReportMode selects what the monthly report counts.
type ReportMode string

const (
	// ReportClosures counts CLOSED_CONTRACT records by the month they are
	// attached to.
	ReportClosures ReportMode = "closures"
	// ReportEnrollments counts clients by enrollment month.
	ReportEnrollments ReportMode = "enrollments"
)

func ParseReportMode(s string) (ReportMode, error) {
	switch m := ReportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ReportClosures, ReportEnrollments:
		return m, nil
	case "":
		return ReportClosures, nil
	default:
		return "", fmt.Errorf("unknown report mode %q", s)
	}
}

type ReportRow struct {
	Month calendar.Month
	Count int
}

// BuildMonthlyReport returns one row per window month, zero-filled.
func BuildMonthlyReport(clients []client.Client, window []calendar.Month, mode ReportMode) []ReportRow {
	counter := make(map[calendar.Month]int)
	for _, c := range clients {
		switch mode {
		case ReportEnrollments:
			counter[c.EnrollmentMonth]++
		default:
			for m, rec := range c.StatusByMonth {
				if rec.Status == client.StatusClosedContract {
					counter[m]++
				}
			}
		}
	}

	rows := make([]ReportRow, len(window))
	for i, m := range window {
		rows[i] = ReportRow{Month: m, Count: counter[m]}
	}
	return rows
}

// Total sums the counts of a report.
func Total(rows []ReportRow) int {
	n := 0
	for _, r := range rows {
		n += r.Count
	}
	return n
}
