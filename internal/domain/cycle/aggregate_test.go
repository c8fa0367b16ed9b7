package cycle

import (
	"testing"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checklistFixture() []client.Client {
	pending := newClient("pending", "2025-01", 5)
	done := withRecord(newClient("done", "2025-02", 7), "2025-03", client.StatusDone, day(9))
	notDone := withRecord(newClient("notdone", "2025-03", 8), "2025-03", client.StatusNotDone, nil)
	resched := withRecord(newClient("resched", "2024-11", 8), "2025-03", client.StatusRescheduled, day(25))
	closedHere := withRecord(newClient("closedhere", "2025-03", 2), "2025-04", client.StatusClosedContract, nil)
	outside := newClient("outside", "2025-04", 3)
	ended := newClient("ended", "2024-10", 3)
	corrupt := withRecord(newClient("corrupt", "2025-02", 4), "2025-03", client.Status("LOST"), nil)
	return []client.Client{pending, done, notDone, resched, closedHere, outside, ended, corrupt}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Client.ID)
	}
	return out
}

func TestBuildChecklist_Partition(t *testing.T) {
	cl := BuildChecklist(checklistFixture(), month("2025-03"), SubFilterAll)

	assert.Equal(t, []string{"pending", "notdone", "resched", "corrupt"}, ids(cl.Pending))
	assert.Equal(t, []string{"done"}, ids(cl.Completed))
	assert.Equal(t, Counts{All: 4, Pending: 1, NotDone: 1, Rescheduled: 1, Unrecognized: 1}, cl.Counts)
}

func TestBuildChecklist_ItemDetails(t *testing.T) {
	cl := BuildChecklist(checklistFixture(), month("2025-03"), SubFilterAll)
	require.NotEmpty(t, cl.Pending)

	first := cl.Pending[0]
	assert.Equal(t, 3, first.Meeting)
	assert.Equal(t, "Terceira Reunião", first.Label)
	assert.Equal(t, client.StatusPending, first.Status)
	assert.Equal(t, 5, first.Day)

	resched := cl.Pending[2]
	assert.Equal(t, 5, resched.Meeting)
	assert.Equal(t, 25, resched.Day)

	done := cl.Completed[0]
	assert.Equal(t, 2, done.Meeting)
	assert.Equal(t, 9, done.Day)
}

func TestBuildChecklist_SubFilterKeepsCounts(t *testing.T) {
	cl := BuildChecklist(checklistFixture(), month("2025-03"), SubFilterRescheduled)
	assert.Equal(t, []string{"resched"}, ids(cl.Pending))
	assert.Equal(t, 4, cl.Counts.All)
	assert.Len(t, cl.Completed, 1)

	cl = BuildChecklist(checklistFixture(), month("2025-03"), SubFilterNotDone)
	assert.Equal(t, []string{"notdone"}, ids(cl.Pending))

	cl = BuildChecklist(checklistFixture(), month("2025-03"), SubFilterPending)
	assert.Equal(t, []string{"pending"}, ids(cl.Pending))
}

func TestBuildChecklist_EveryEligibleClientExactlyOnce(t *testing.T) {
	clients := checklistFixture()
	for _, target := range []string{"2024-12", "2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06", "2025-07"} {
		m := month(target)
		cl := BuildChecklist(clients, m, SubFilterAll)
		seen := map[string]int{}
		for _, id := range append(ids(cl.Pending), ids(cl.Completed)...) {
			seen[id]++
		}
		for _, c := range clients {
			months, err := New(c.EnrollmentMonth)
			require.NoError(t, err)
			if IsInactive(c) || !months.Contains(m) {
				assert.Zero(t, seen[c.ID], "client %s month %s", c.ID, target)
				continue
			}
			assert.Equal(t, 1, seen[c.ID], "client %s month %s", c.ID, target)
		}
	}
}

func TestBuildChecklist_ClosedNeverPending(t *testing.T) {
	// Closed in the target month but the client is inactive, so it is skipped entirely.
	c := withRecord(newClient("x", "2025-01", 1), "2025-02", client.StatusClosedContract, nil)
	cl := BuildChecklist([]client.Client{c}, month("2025-02"), SubFilterAll)
	assert.Empty(t, cl.Pending)
	assert.Empty(t, cl.Completed)
}

func TestParseSubFilter(t *testing.T) {
	f, err := ParseSubFilter("")
	require.NoError(t, err)
	assert.Equal(t, SubFilterAll, f)
	f, err = ParseSubFilter("NOT_DONE")
	require.NoError(t, err)
	assert.Equal(t, SubFilterNotDone, f)
	_, err = ParseSubFilter("done")
	assert.Error(t, err)
}

func TestBuildMonthlyReport_ClosuresByRecordMonth(t *testing.T) {
	a := withRecord(newClient("a", "2025-01", 1), "2025-08", client.StatusClosedContract, nil)
	b := withRecord(newClient("b", "2025-02", 1), "2025-03", client.StatusClosedContract, nil)
	b = withRecord(b, "2025-04", client.StatusDone, nil)
	c := withRecord(newClient("c", "2025-03", 1), "2025-03", client.StatusClosedContract, nil)

	window := Window(month("2025-03"), 12)
	rows := BuildMonthlyReport([]client.Client{a, b, c}, window, ReportClosures)

	require.Len(t, rows, 12)
	assert.Equal(t, ReportRow{Month: month("2025-03"), Count: 2}, rows[0])
	assert.Equal(t, 0, rows[1].Count)
	assert.Equal(t, ReportRow{Month: month("2025-08"), Count: 1}, rows[5])
	assert.Equal(t, 3, Total(rows))
}

func TestBuildMonthlyReport_Enrollments(t *testing.T) {
	clients := []client.Client{
		newClient("a", "2025-01", 1),
		newClient("b", "2025-01", 1),
		newClient("c", "2025-03", 1),
		newClient("d", "2024-12", 1),
	}
	rows := BuildMonthlyReport(clients, Window(month("2025-01"), 3), ReportEnrollments)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2, 0, 1}, []int{rows[0].Count, rows[1].Count, rows[2].Count})
}

func TestBuildMonthlyReport_DenseWhenEmpty(t *testing.T) {
	for _, mode := range []ReportMode{ReportClosures, ReportEnrollments} {
		rows := BuildMonthlyReport(nil, Window(month("2025-06"), 12), mode)
		require.Len(t, rows, 12)
		for i, r := range rows {
			assert.Equal(t, month("2025-06").AddMonths(i), r.Month)
			assert.Zero(t, r.Count)
		}
	}
}

func TestParseReportMode(t *testing.T) {
	m, err := ParseReportMode("")
	require.NoError(t, err)
	assert.Equal(t, ReportClosures, m)
	m, err = ParseReportMode("Enrollments")
	require.NoError(t, err)
	assert.Equal(t, ReportEnrollments, m)
	_, err = ParseReportMode("revenue")
	assert.Error(t, err)
}

func TestUpcomingReminders(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

	today := newClient("today", "2025-03", 10)
	soon := newClient("soon", "2025-02", 15)
	custom := withRecord(newClient("custom", "2025-01", 1), "2025-03", client.StatusPending, day(17))
	done := withRecord(newClient("done", "2025-03", 12), "2025-03", client.StatusDone, nil)
	resched := withRecord(newClient("resched", "2025-03", 12), "2025-03", client.StatusRescheduled, nil)
	past := newClient("past", "2025-03", 9)
	far := newClient("far", "2025-03", 18)
	closed := withRecord(newClient("closed", "2025-03", 11), "2025-06", client.StatusClosedContract, nil)
	unknown := newClient("unknown", "2025-03", 0)

	got := UpcomingReminders([]client.Client{far, custom, soon, today, done, resched, past, closed, unknown}, now, 7)
	require.Len(t, got, 3)

	assert.Equal(t, "today", got[0].Client.ID)
	assert.Equal(t, 0, got[0].DaysLeft)
	assert.Equal(t, 1, got[0].Meeting)

	assert.Equal(t, "soon", got[1].Client.ID)
	assert.Equal(t, 5, got[1].DaysLeft)
	assert.Equal(t, "Segunda Reunião", got[1].Label)

	assert.Equal(t, "custom", got[2].Client.ID)
	assert.Equal(t, 7, got[2].DaysLeft)
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC), got[2].Date)
}

func TestSummarize(t *testing.T) {
	now := date(2025, time.June, 1)
	clients := []client.Client{
		newClient("late", "2025-01", 10),
		newClient("fresh", "2025-06", 10),
		withRecord(newClient("closed", "2025-06", 10), "2025-06", client.StatusClosedContract, nil),
	}
	o := Summarize(clients, month("2025-06"), now)
	assert.Equal(t, Overview{
		Month:          month("2025-06"),
		Active:         2,
		Finalized:      1,
		NeedsAttention: 1,
		Enrollments:    2,
	}, o)
}

func TestNextSequence(t *testing.T) {
	a := newClient("a", "2025-01", 1)
	a.SequenceInMonth = 4
	b := newClient("b", "2025-01", 1)
	b.SequenceInMonth = 2
	c := newClient("c", "2025-02", 1)
	c.SequenceInMonth = 9

	clients := []client.Client{a, b, c}
	assert.Equal(t, 5, NextSequence(clients, month("2025-01")))
	assert.Equal(t, 1, NextSequence(clients, month("2025-05")))
	assert.Equal(t, 1, NextSequence(nil, calendar.MustParse("2025-05")))
}
