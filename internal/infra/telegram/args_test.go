package telegram

import (
	"strings"
	"testing"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListArgs(t *testing.T) {
	f := parseListArgs(nil)
	assert.Equal(t, cycle.Filter{Category: cycle.CategoryActive}, f)

	f = parseListArgs([]string{"Finalizados", "2025-03", "maria", "silva"})
	assert.Equal(t, cycle.CategoryFinalized, f.Category)
	assert.Equal(t, calendar.MustParse("2025-03"), f.Month)
	assert.Equal(t, "maria silva", f.Search)

	f = parseListArgs([]string{"4321", "atencao"})
	assert.Equal(t, cycle.CategoryNeedsAttention, f.Category)
	assert.Equal(t, "4321", f.Search)
	assert.True(t, f.Month.IsZero())
}

func TestParseEnrollmentDate(t *testing.T) {
	m, d, err := parseEnrollmentDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-02", m.String())
	assert.Equal(t, 28, d)

	_, _, err = parseEnrollmentDate("2025-02-30")
	assert.Error(t, err)
	_, _, err = parseEnrollmentDate("28/02/2025")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]client.Status{
		"realizada":       client.StatusDone,
		"NAO_REALIZADA":   client.StatusNotDone,
		"remarcada":       client.StatusRescheduled,
		"encerrado":       client.StatusClosedContract,
		"closed_contract": client.StatusClosedContract,
		"PENDING":         client.StatusPending,
	}
	for in, want := range cases {
		got, err := parseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseStatus("cancelada")
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("-")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDay("15")
	require.NoError(t, err)
	assert.Equal(t, 15, *d)

	_, err = parseDay("0")
	assert.Error(t, err)
	_, err = parseDay("x")
	assert.Error(t, err)
}

func TestParseChecklistArgs(t *testing.T) {
	m, sub, err := parseChecklistArgs(nil)
	require.NoError(t, err)
	assert.True(t, m.IsZero())
	assert.Equal(t, cycle.SubFilterAll, sub)

	m, sub, err = parseChecklistArgs([]string{"remarcada", "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "2025-07", m.String())
	assert.Equal(t, cycle.SubFilterRescheduled, sub)

	_, _, err = parseChecklistArgs([]string{"2025-13"})
	assert.Error(t, err)
}

func TestParseReportMode(t *testing.T) {
	m, err := parseReportMode(nil)
	require.NoError(t, err)
	assert.Equal(t, cycle.ReportClosures, m)
	m, err = parseReportMode([]string{"entradas"})
	require.NoError(t, err)
	assert.Equal(t, cycle.ReportEnrollments, m)
	_, err = parseReportMode([]string{"receita"})
	assert.Error(t, err)
}

func TestParseStatusAction(t *testing.T) {
	id := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	a, err := parseStatusAction([]string{id, "2025-03", actionDone})
	require.NoError(t, err)
	assert.Equal(t, statusAction{ClientID: id, Month: calendar.MustParse("2025-03"), Code: actionDone}, a)

	_, err = parseStatusAction([]string{id, "2025-03", "X"})
	assert.Error(t, err)
	_, err = parseStatusAction([]string{id, "março"})
	assert.Error(t, err)
}

func TestChecklistMarkupFitsCallbackLimit(t *testing.T) {
	id := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	c := client.Client{
		ID:              id,
		Name:            "Maria",
		EnrollmentMonth: calendar.MustParse("2025-01"),
		EnrollmentDay:   3,
		SequenceInMonth: 1,
		StatusByMonth:   map[calendar.Month]client.MeetingRecord{},
	}
	cl := cycle.BuildChecklist([]client.Client{c}, calendar.MustParse("2025-02"), cycle.SubFilterAll)
	markup := checklistMarkup(cl)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 3)
	for _, btn := range markup.InlineKeyboard[0] {
		assert.Equal(t, statusButton, btn.Unique)
		assert.True(t, strings.HasPrefix(btn.Data, id+"|2025-02|"))
		// Sent as "\f<unique>|<data>".
		assert.LessOrEqual(t, len("\f"+btn.Unique+"|"+btn.Data), 64)
	}

	assert.Nil(t, checklistMarkup(cycle.Checklist{}))
}
