package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/user"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgAdminOnly = "Erro: você não tem permissão para executar este comando."

// RegisterAdminHandlers registers the user management commands. The service
// checks that the sender is an administrator.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	adminError := func(c telebot.Context, logCtx *logrus.Entry, err error, telegramID int64) error {
		logWithError := logCtx.WithError(err)
		switch {
		case errors.Is(err, app.ErrNotAuthorized):
			logWithError.Warn("Unauthorized access attempt")
			return c.Send(msgAdminOnly)
		case errors.Is(err, app.ErrUserAlreadyExists):
			logWithError.Warn("User already exists")
			return c.Send(fmt.Sprintf("Erro: o usuário com Telegram ID %d já está cadastrado.", telegramID))
		case errors.Is(err, app.ErrCannotChangeBootstrapAdmin):
			return c.Send("Erro: o administrador principal é definido na configuração e não pode ser alterado.")
		case errors.Is(err, idb.ErrUserNotFound):
			logWithError.Warn("User not found")
			return c.Send(fmt.Sprintf("Usuário com Telegram ID %d não encontrado.", telegramID))
		default:
			logWithError.Error("Admin command failed")
			return c.Send(fmt.Sprintf("Ocorreu um erro: %s", err.Error()))
		}
	}

	b.Handle("/add_user", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_user",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		// Expected format: /add_user <TelegramID> <ADMIN|ASSISTANT> <Name...>
		if len(args) < 3 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Formato inválido. Use: /add_user <TelegramID> <ADMIN|ASSISTANT> <nome>")
		}
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Erro: o Telegram ID deve ser um número.")
		}
		role, err := user.ParseRole(args[1])
		if err != nil {
			return c.Send("Erro: o papel deve ser ADMIN ou ASSISTANT.")
		}
		name := strings.Join(args[2:], " ")

		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"user_telegram_id": telegramID,
			"role":             role,
		})
		newUser, err := adminService.AddUser(ctx, c.Sender().ID, telegramID, role, name)
		if err != nil {
			return adminError(c, handlerLogger, err, telegramID)
		}
		handlerLogger.WithField("new_user_id", newUser.ID).Info("User added successfully")
		return c.Send(fmt.Sprintf("Usuário %s (ID: %d, %s) cadastrado com sucesso.", newUser.Name, newUser.TelegramID, newUser.Role))
	})

	b.Handle("/set_role", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/set_role",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		if len(args) != 2 {
			return c.Send("Formato inválido. Use: /set_role <TelegramID> <ADMIN|ASSISTANT>")
		}
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Erro: o Telegram ID deve ser um número.")
		}
		role, err := user.ParseRole(args[1])
		if err != nil {
			return c.Send("Erro: o papel deve ser ADMIN ou ASSISTANT.")
		}
		updated, err := adminService.SetRole(ctx, c.Sender().ID, telegramID, role)
		if err != nil {
			return adminError(c, handlerLogger, err, telegramID)
		}
		handlerLogger.WithFields(logrus.Fields{"user_telegram_id": telegramID, "role": role}).Info("Role changed")
		return c.Send(fmt.Sprintf("Usuário %s agora é %s.", updated.Name, updated.Role))
	})

	b.Handle("/remove_user", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_user",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		// Expected format: /remove_user <TelegramID>
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /remove_user <TelegramID>")
		}
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid Telegram ID format")
			return c.Send("Erro: o Telegram ID deve ser um número.")
		}
		handlerLogger = handlerLogger.WithField("user_telegram_id", telegramID)

		removed, err := adminService.DeactivateUser(ctx, c.Sender().ID, telegramID)
		if errors.Is(err, app.ErrUserAlreadyInactive) {
			return c.Send(fmt.Sprintf("O usuário %s (ID: %d) já estava desativado.", removed.Name, removed.TelegramID))
		}
		if err != nil {
			return adminError(c, handlerLogger, err, telegramID)
		}
		handlerLogger.Info("User deactivated successfully")
		return c.Send(fmt.Sprintf("Usuário %s (ID: %d) desativado com sucesso.", removed.Name, removed.TelegramID))
	})

	b.Handle("/list_users", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_users",
			"sender_id": c.Sender().ID,
		})
		users, err := adminService.ListUsers(ctx, c.Sender().ID)
		if err != nil {
			return adminError(c, handlerLogger, err, 0)
		}
		handlerLogger.WithField("users_count", len(users)).Info("Successfully retrieved user list")
		return sendLong(c, app.FormatUsers(users))
	})
}
