package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// errorText turns a service error into a message for staff.
func errorText(err error) string {
	switch {
	case errors.Is(err, app.ErrClientNotFound):
		return "Cliente não encontrado."
	case errors.Is(err, app.ErrAmbiguousClientID):
		return "Mais de um cliente começa com esse id. Use mais caracteres."
	case errors.Is(err, client.ErrEmptyName):
		return "O nome não pode ficar vazio."
	case errors.Is(err, client.ErrInvalidDay):
		return "Dia inválido. Use um número de 1 a 31."
	case errors.Is(err, client.ErrInvalidSequence):
		return "A ordem deve ser um número positivo."
	case errors.Is(err, client.ErrUnknownStatus):
		return "Status inválido."
	case errors.Is(err, calendar.ErrInvalidMonth):
		return "Mês inválido. Use AAAA-MM."
	default:
		return "Não foi possível salvar a alteração. Nada foi modificado, tente novamente."
	}
}

// RegisterClientHandlers registers the client and view commands for staff.
func RegisterClientHandlers(ctx context.Context, b *telebot.Bot, clientService *app.ClientService, adminService *app.AdminService, baseLogger *logrus.Entry) {
	g := b.Group()
	g.Use(staffOnly(ctx, adminService, baseLogger))

	handlerLogger := func(c telebot.Context, handler string) *logrus.Entry {
		entry := baseLogger.WithFields(logrus.Fields{
			"handler":   handler,
			"sender_id": c.Sender().ID,
		})
		if u := currentUser(c); u != nil {
			entry = entry.WithField("role", u.Role)
		}
		entry.Info("Command received")
		return entry
	}

	// fail logs err and answers with its staff-facing text.
	fail := func(c telebot.Context, logCtx *logrus.Entry, err error) error {
		if errors.Is(err, app.ErrClientNotFound) || errors.Is(err, app.ErrAmbiguousClientID) {
			logCtx.WithError(err).Warn("Client lookup failed")
		} else {
			logCtx.WithError(err).Error("Command failed")
		}
		return c.Send(errorText(err))
	}

	lookup := func(idArg string) (client.Client, error) {
		return clientService.Lookup(idArg)
	}

	g.Handle("/clientes", func(c telebot.Context) error {
		handlerLogger(c, "/clientes")
		list := clientService.List(parseListArgs(c.Args()))
		return sendLong(c, app.FormatClientList(list, clientService.Now()))
	})

	g.Handle("/cliente", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/cliente")
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /cliente <id>")
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		return c.Send(app.FormatClientDetail(cl, clientService.Now()))
	})

	g.Handle("/novo", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/novo")
		args := c.Args()
		if len(args) < 3 {
			return c.Send("Formato inválido. Use: /novo <AAAA-MM-DD> <telefone> <nome>")
		}
		month, day, err := parseEnrollmentDate(args[0])
		if err != nil {
			return c.Send(err.Error())
		}
		created, err := clientService.AddClient(ctx, app.NewClient{
			Name:            strings.Join(args[2:], " "),
			Phone:           args[1],
			EnrollmentMonth: month,
			EnrollmentDay:   day,
		})
		if err != nil {
			return fail(c, logCtx, err)
		}
		logCtx.WithField("client_id", created.ID).Info("Client added")
		return c.Send("Cliente cadastrado.\n" + app.FormatClientDetail(created, clientService.Now()))
	})

	g.Handle("/editar", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/editar")
		args := c.Args()
		if len(args) < 4 {
			return c.Send("Formato inválido. Use: /editar <id> <AAAA-MM-DD> <telefone> <nome>")
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		month, day, err := parseEnrollmentDate(args[1])
		if err != nil {
			return c.Send(err.Error())
		}
		updated, err := clientService.UpdateDetails(ctx, cl.ID, client.Details{
			Name:            strings.Join(args[3:], " "),
			Phone:           args[2],
			EnrollmentMonth: month,
			EnrollmentDay:   day,
		})
		if err != nil {
			return fail(c, logCtx, err)
		}
		return c.Send("Dados atualizados.\n" + app.FormatClientDetail(updated, clientService.Now()))
	})

	g.Handle("/ordem", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/ordem")
		args := c.Args()
		if len(args) != 2 {
			return c.Send("Formato inválido. Use: /ordem <id> <n>")
		}
		seq, err := strconv.Atoi(args[1])
		if err != nil {
			return c.Send("A ordem deve ser um número positivo.")
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		updated, err := clientService.SetSequence(ctx, cl.ID, seq)
		if err != nil {
			return fail(c, logCtx, err)
		}
		return c.Send(app.FormatClientLine(updated, clientService.Now()))
	})

	g.Handle("/excluir", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/excluir")
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /excluir <id>")
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		if err := clientService.DeleteClient(ctx, cl.ID); err != nil {
			return fail(c, logCtx, err)
		}
		return c.Send(fmt.Sprintf("Cliente %s removido.", cl.Name))
	})

	g.Handle("/status", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/status")
		args := c.Args()
		if len(args) != 3 {
			return c.Send("Formato inválido. Use: /status <id> <AAAA-MM> <status>")
		}
		month, err := parseMonth(args[1])
		if err != nil {
			return c.Send(err.Error())
		}
		status, err := parseStatus(args[2])
		if err != nil {
			return c.Send(err.Error())
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		updated, err := clientService.SetMeetingStatus(ctx, cl.ID, month, status)
		if err != nil {
			return fail(c, logCtx, err)
		}
		logCtx.WithFields(logrus.Fields{"client_id": cl.ID, "month": month.String(), "status": status}).Info("Meeting status set")
		return c.Send(app.FormatClientDetail(updated, clientService.Now()))
	})

	g.Handle("/dia", func(c telebot.Context) error {
		logCtx := handlerLogger(c, "/dia")
		args := c.Args()
		if len(args) != 3 {
			return c.Send("Formato inválido. Use: /dia <id> <AAAA-MM> <dia|->")
		}
		month, err := parseMonth(args[1])
		if err != nil {
			return c.Send(err.Error())
		}
		day, err := parseDay(args[2])
		if err != nil {
			return c.Send(err.Error())
		}
		cl, err := lookup(args[0])
		if err != nil {
			return fail(c, logCtx, err)
		}
		updated, err := clientService.SetMeetingDay(ctx, cl.ID, month, day)
		if err != nil {
			return fail(c, logCtx, err)
		}
		return c.Send(app.FormatClientDetail(updated, clientService.Now()))
	})

	g.Handle("/atencao", func(c telebot.Context) error {
		handlerLogger(c, "/atencao")
		return sendLong(c, app.FormatAttention(clientService.Attention(), clientService.Now()))
	})

	g.Handle("/lembretes", func(c telebot.Context) error {
		handlerLogger(c, "/lembretes")
		return sendLong(c, app.FormatReminders(clientService.Upcoming(), clientService.HorizonDays()))
	})

	g.Handle("/relatorio", func(c telebot.Context) error {
		handlerLogger(c, "/relatorio")
		mode, err := parseReportMode(c.Args())
		if err != nil {
			return c.Send(err.Error())
		}
		return c.Send(app.FormatReport(clientService.Report(mode), mode))
	})

	g.Handle("/resumo", func(c telebot.Context) error {
		handlerLogger(c, "/resumo")
		var month calendar.Month
		if args := c.Args(); len(args) > 0 {
			m, err := parseMonth(args[0])
			if err != nil {
				return c.Send(err.Error())
			}
			month = m
		}
		return c.Send(app.FormatOverview(clientService.Stats(month)))
	})
}
