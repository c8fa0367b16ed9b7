// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"meeting_cycle_bot/internal/app"
	domainTelegram "meeting_cycle_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter delivers alerts through the bot.
type TelebotAdapter struct {
	bot *telebot.Bot
}

var _ domainTelegram.Notifier = (*TelebotAdapter)(nil)

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Notify sends text to a private chat. Staff chats are direct user chats, so
// the chat id equals the Telegram user id.
func (tba *TelebotAdapter) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := tba.bot.Send(telebot.ChatID(chatID), text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}

// sendLong replies with text split to fit Telegram's message limit. Options
// are attached to the last chunk only.
func sendLong(c telebot.Context, text string, opts ...interface{}) error {
	chunks := app.SplitMessage(text, app.MaxMessageLength)
	for i, chunk := range chunks {
		var err error
		if i == len(chunks)-1 {
			err = c.Send(chunk, opts...)
		} else {
			err = c.Send(chunk)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
