package telegram

import (
	"context"
	"errors"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const userKey = "user"

const msgNotAuthorized = "Você não tem permissão para usar este comando. Peça a um administrador para cadastrá-lo."

// staffOnly lets through active staff users and stores the user in the
// context under userKey.
func staffOnly(ctx context.Context, adminService *app.AdminService, baseLogger *logrus.Entry) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender() == nil {
				return nil
			}
			u, err := adminService.Authorize(ctx, c.Sender().ID)
			if err != nil {
				logCtx := baseLogger.WithField("sender_id", c.Sender().ID).WithError(err)
				if errors.Is(err, app.ErrNotAuthorized) {
					logCtx.Warn("Unauthorized access attempt")
					if c.Callback() != nil {
						return c.Respond(&telebot.CallbackResponse{Text: msgNotAuthorized, ShowAlert: true})
					}
					return c.Send(msgNotAuthorized)
				}
				logCtx.Error("Error checking user authorization")
				return c.Send("Ocorreu um erro ao verificar seu acesso. Tente novamente mais tarde.")
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

func currentUser(c telebot.Context) *user.User {
	u, _ := c.Get(userKey).(*user.User)
	return u
}
