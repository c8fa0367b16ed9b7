package app

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"
	"meeting_cycle_bot/internal/domain/user"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// ShortID is the abbreviated client id shown to staff.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dayText(day int) string {
	if day == 0 {
		return "dia ?"
	}
	return fmt.Sprintf("dia %02d", day)
}

// FormatClientLine renders one client for listings.
func FormatClientLine(c client.Client, now time.Time) string {
	state := "ativo"
	switch {
	case cycle.IsInactive(c):
		state = "finalizado"
	default:
		if flagged, err := cycle.NeedsAttention(c, now); err != nil {
			state = "dia de entrada desconhecido"
		} else if flagged {
			state = "⚠️ atenção"
		}
	}
	return fmt.Sprintf("[%s] #%d %s (tel. …%s) entrada %s %s, %s",
		ShortID(c.ID), c.SequenceInMonth, c.Name, c.PhoneDigits,
		c.EnrollmentMonth.String(), dayText(c.EnrollmentDay), state)
}

func FormatClientList(clients []client.Client, now time.Time) string {
	if len(clients) == 0 {
		return "Nenhum cliente encontrado."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Clientes (%d):\n", len(clients))
	for _, c := range clients {
		b.WriteString(FormatClientLine(c, now))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatClientDetail lists the whole cycle of one client.
func FormatClientDetail(c client.Client, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatClientLine(c, now))
	months, err := cycle.New(c.EnrollmentMonth)
	if err != nil {
		return b.String()
	}
	for i, m := range months {
		res, err := cycle.ResolveStatus(c, m)
		label := res.Status.Label()
		if err != nil {
			label += " ⚠️"
		}
		fmt.Fprintf(&b, "\n%s: %s, %s, %s", cycle.Label(i), m.Label(), dayText(res.Day), label)
	}
	return b.String()
}

func formatItem(it cycle.Item) string {
	return fmt.Sprintf("[%s] %s (%s, %s): %s",
		ShortID(it.Client.ID), it.Client.Name, it.Label, dayText(it.Day), it.Status.Label())
}

func FormatChecklist(cl cycle.Checklist) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checklist de %s\n", cl.Month.Label())
	fmt.Fprintf(&b, "Pendentes: %d (pendente %d, não realizada %d, remarcada %d",
		cl.Counts.All, cl.Counts.Pending, cl.Counts.NotDone, cl.Counts.Rescheduled)
	if cl.Counts.Unrecognized > 0 {
		fmt.Fprintf(&b, ", status inválido %d", cl.Counts.Unrecognized)
	}
	b.WriteString(")\n")
	for _, it := range cl.Pending {
		b.WriteString("⏳ " + formatItem(it) + "\n")
	}
	fmt.Fprintf(&b, "Concluídas: %d\n", len(cl.Completed))
	for _, it := range cl.Completed {
		b.WriteString("✅ " + formatItem(it) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatAttention(list AttentionList, now time.Time) string {
	if len(list.Flagged) == 0 && len(list.Unresolved) == 0 {
		return "Nenhum cliente precisa de atenção."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Clientes que precisam de atenção (%d):\n", len(list.Flagged))
	for _, c := range list.Flagged {
		b.WriteString(FormatClientLine(c, now) + "\n")
	}
	if len(list.Unresolved) > 0 {
		fmt.Fprintf(&b, "Sem dia de entrada cadastrado (%d):\n", len(list.Unresolved))
		for _, c := range list.Unresolved {
			fmt.Fprintf(&b, "[%s] %s\n", ShortID(c.ID), c.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatReminders(reminders []cycle.Reminder, horizonDays int) string {
	if len(reminders) == 0 {
		return fmt.Sprintf("Nenhuma reunião pendente nos próximos %d dias.", horizonDays)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Reuniões nos próximos %d dias:\n", horizonDays)
	for _, r := range reminders {
		when := "hoje"
		switch {
		case r.DaysLeft == 1:
			when = "amanhã"
		case r.DaysLeft > 1:
			when = fmt.Sprintf("em %d dias", r.DaysLeft)
		}
		fmt.Fprintf(&b, "%s (%s): [%s] %s, %s\n",
			r.Date.Format("02/01"), when, ShortID(r.Client.ID), r.Client.Name, r.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatReport(rows []cycle.ReportRow, mode cycle.ReportMode) string {
	title := "Contratos encerrados por mês"
	if mode == cycle.ReportEnrollments {
		title = "Entradas por mês"
	}
	var b strings.Builder
	b.WriteString(title + ":\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %d\n", r.Month.Label(), r.Count)
	}
	fmt.Fprintf(&b, "Total: %d", cycle.Total(rows))
	return b.String()
}

func FormatOverview(o cycle.Overview) string {
	return fmt.Sprintf("Resumo de %s\nAtivos: %d\nFinalizados: %d\nPrecisam de atenção: %d\nEntradas no mês: %d",
		o.Month.Label(), o.Active, o.Finalized, o.NeedsAttention, o.Enrollments)
}

func FormatUsers(users []*user.User) string {
	if len(users) == 0 {
		return "Nenhum usuário cadastrado."
	}
	var b strings.Builder
	b.WriteString("Usuários:\n")
	for _, u := range users {
		state := "ativo"
		if !u.IsActive {
			state = "inativo"
		}
		fmt.Fprintf(&b, "%d %s %s (%s)\n", u.TelegramID, u.Name, u.Role, state)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SplitMessage breaks text into chunks of at most limit bytes, cutting at
// line boundaries where possible.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var (
		chunks []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		extra := len(line)
		if cur.Len() > 0 {
			extra++
		}
		if cur.Len()+extra > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}
