package telegram

import (
	"context"
	"fmt"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// maxButtonRows bounds the checklist keyboard; Telegram rejects markups with
// more than 100 buttons.
const maxButtonRows = 30

// checklistMarkup builds one row of status buttons per pending item.
func checklistMarkup(cl cycle.Checklist) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for i, it := range cl.Pending {
		if i == maxButtonRows {
			break
		}
		month := cl.Month.String()
		label := fmt.Sprintf("[%s] %s", app.ShortID(it.Client.ID), it.Client.Name)
		rows = append(rows, markup.Row(
			markup.Data("✅ "+label, statusButton, it.Client.ID, month, actionDone),
			markup.Data("❌", statusButton, it.Client.ID, month, actionNotDone),
			markup.Data("⏳", statusButton, it.Client.ID, month, actionPending),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	markup.Inline(rows...)
	return markup
}

// RegisterChecklistHandlers registers /checklist and its status buttons.
func RegisterChecklistHandlers(ctx context.Context, b *telebot.Bot, clientService *app.ClientService, adminService *app.AdminService, baseLogger *logrus.Entry) {
	g := b.Group()
	g.Use(staffOnly(ctx, adminService, baseLogger))

	g.Handle("/checklist", func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/checklist", "sender_id": c.Sender().ID})
		logCtx.Info("Command received")

		month, sub, err := parseChecklistArgs(c.Args())
		if err != nil {
			return c.Send(err.Error())
		}
		cl := clientService.Checklist(month, sub)
		text := app.FormatChecklist(cl)
		if len(cl.Pending) > maxButtonRows {
			text += fmt.Sprintf("\n\nBotões apenas para os primeiros %d pendentes. Use /status para os demais.", maxButtonRows)
		}
		if markup := checklistMarkup(cl); markup != nil {
			return sendLong(c, text, markup)
		}
		return sendLong(c, text)
	})

	g.Handle(&telebot.InlineButton{Unique: statusButton}, func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "status_button", "sender_id": c.Sender().ID})

		action, err := parseStatusAction(c.Args())
		if err != nil {
			c.Bot().OnError(err, c)
			return c.Respond(&telebot.CallbackResponse{Text: "Ação inválida."})
		}
		logCtx = logCtx.WithFields(logrus.Fields{"client_id": action.ClientID, "month": action.Month.String(), "action": action.Code})

		var updated client.Client
		switch action.Code {
		case actionDone:
			updated, err = clientService.MarkDone(ctx, action.ClientID, action.Month)
		case actionNotDone:
			updated, err = clientService.SetMeetingStatus(ctx, action.ClientID, action.Month, client.StatusNotDone)
		default:
			updated, err = clientService.SetMeetingStatus(ctx, action.ClientID, action.Month, client.StatusPending)
		}
		if err != nil {
			logCtx.WithError(err).Error("Status button failed")
			return c.Respond(&telebot.CallbackResponse{Text: errorText(err), ShowAlert: true})
		}
		logCtx.Info("Meeting status set from checklist")

		rec := updated.StatusByMonth[action.Month]
		text := fmt.Sprintf("%s: %s", updated.Name, rec.Status.Label())
		if rec.CustomDate != nil {
			text += fmt.Sprintf(" (dia %02d)", *rec.CustomDate)
		}
		return c.Respond(&telebot.CallbackResponse{Text: text})
	})
}
