package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"
)

var categoryAliases = map[string]cycle.Category{
	"ativos":      cycle.CategoryActive,
	"finalizados": cycle.CategoryFinalized,
	"atencao":     cycle.CategoryNeedsAttention,
	"atenção":     cycle.CategoryNeedsAttention,
	"todos":       cycle.CategoryAll,
}

var statusAliases = map[string]client.Status{
	"pendente":         client.StatusPending,
	"realizada":        client.StatusDone,
	"feita":            client.StatusDone,
	"nao_realizada":    client.StatusNotDone,
	"não_realizada":    client.StatusNotDone,
	"remarcada":        client.StatusRescheduled,
	"encerrado":        client.StatusClosedContract,
	"encerrada":        client.StatusClosedContract,
	"contrato_fechado": client.StatusClosedContract,
}

var subFilterAliases = map[string]cycle.SubFilter{
	"todos":         cycle.SubFilterAll,
	"pendente":      cycle.SubFilterPending,
	"nao_realizada": cycle.SubFilterNotDone,
	"não_realizada": cycle.SubFilterNotDone,
	"remarcada":     cycle.SubFilterRescheduled,
}

var reportAliases = map[string]cycle.ReportMode{
	"encerramentos": cycle.ReportClosures,
	"entradas":      cycle.ReportEnrollments,
}

// parseListArgs reads "/clientes [categoria] [AAAA-MM] [busca...]". Tokens may
// come in any order; anything that is not a category or a month is search text.
func parseListArgs(args []string) cycle.Filter {
	f := cycle.Filter{Category: cycle.CategoryActive}
	categorySet := false
	var search []string
	for _, a := range args {
		if c, ok := categoryAliases[strings.ToLower(a)]; ok && !categorySet {
			f.Category = c
			categorySet = true
			continue
		}
		if m, err := calendar.Parse(a); err == nil && f.Month.IsZero() {
			f.Month = m
			continue
		}
		search = append(search, a)
	}
	f.Search = strings.Join(search, " ")
	return f
}

// parseEnrollmentDate reads AAAA-MM-DD into the enrollment month and day.
func parseEnrollmentDate(s string) (calendar.Month, int, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return calendar.Month{}, 0, fmt.Errorf("data inválida %q, use AAAA-MM-DD", s)
	}
	return calendar.Of(t), t.Day(), nil
}

func parseMonth(s string) (calendar.Month, error) {
	m, err := calendar.Parse(s)
	if err != nil {
		return calendar.Month{}, fmt.Errorf("mês inválido %q, use AAAA-MM", s)
	}
	return m, nil
}

func parseStatus(s string) (client.Status, error) {
	if st, ok := statusAliases[strings.ToLower(s)]; ok {
		return st, nil
	}
	st, err := client.ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("status inválido %q, use pendente, realizada, nao_realizada, remarcada ou encerrado", s)
	}
	return st, nil
}

// parseDay reads a day of month; "-" clears the override and yields nil.
func parseDay(s string) (*int, error) {
	if s == "-" {
		return nil, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || !client.ValidDay(d) {
		return nil, fmt.Errorf("dia inválido %q, use 1 a 31 ou -", s)
	}
	return &d, nil
}

// parseChecklistArgs reads "/checklist [AAAA-MM] [filtro]" in any order.
func parseChecklistArgs(args []string) (calendar.Month, cycle.SubFilter, error) {
	var (
		month calendar.Month
		sub   = cycle.SubFilterAll
	)
	for _, a := range args {
		if m, err := calendar.Parse(a); err == nil {
			month = m
			continue
		}
		if f, ok := subFilterAliases[strings.ToLower(a)]; ok {
			sub = f
			continue
		}
		f, err := cycle.ParseSubFilter(a)
		if err != nil {
			return calendar.Month{}, "", fmt.Errorf("argumento inválido %q, use AAAA-MM e todos, pendente, nao_realizada ou remarcada", a)
		}
		sub = f
	}
	return month, sub, nil
}

func parseReportMode(args []string) (cycle.ReportMode, error) {
	if len(args) == 0 {
		return cycle.ReportClosures, nil
	}
	if m, ok := reportAliases[strings.ToLower(args[0])]; ok {
		return m, nil
	}
	m, err := cycle.ParseReportMode(args[0])
	if err != nil {
		return "", fmt.Errorf("relatório inválido %q, use encerramentos ou entradas", args[0])
	}
	return m, nil
}

// Checklist buttons carry "<client id>|<AAAA-MM>|<code>" under the statusButton
// unique, which keeps callback data well under Telegram's 64 bytes.
const statusButton = "st"

const (
	actionDone    = "D"
	actionNotDone = "N"
	actionPending = "P"
)

type statusAction struct {
	ClientID string
	Month    calendar.Month
	Code     string
}

func parseStatusAction(args []string) (statusAction, error) {
	if len(args) != 3 {
		return statusAction{}, fmt.Errorf("invalid status callback %v", args)
	}
	m, err := calendar.Parse(args[1])
	if err != nil {
		return statusAction{}, fmt.Errorf("invalid status callback month: %w", err)
	}
	switch args[2] {
	case actionDone, actionNotDone, actionPending:
	default:
		return statusAction{}, fmt.Errorf("invalid status callback code %q", args[2])
	}
	return statusAction{ClientID: args[0], Month: m, Code: args[2]}, nil
}
