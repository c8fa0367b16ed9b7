// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func staffHelp() string {
	var helpText strings.Builder
	helpText.WriteString("Comandos disponíveis:\n\n")
	helpText.WriteString("/clientes [ativos|finalizados|atencao|todos] [AAAA-MM] [busca]\n - Lista clientes. Padrão: ativos.\n")
	helpText.WriteString("/cliente <id>\n - Mostra o ciclo completo de um cliente.\n")
	helpText.WriteString("/novo <AAAA-MM-DD> <telefone> <nome>\n - Cadastra um cliente pela data de entrada.\n")
	helpText.WriteString("/editar <id> <AAAA-MM-DD> <telefone> <nome>\n - Altera os dados de um cliente.\n")
	helpText.WriteString("/ordem <id> <n>\n - Define a ordem do cliente no mês de entrada.\n")
	helpText.WriteString("/excluir <id>\n - Remove um cliente.\n")
	helpText.WriteString("/status <id> <AAAA-MM> <pendente|realizada|nao_realizada|remarcada|encerrado>\n - Registra o status da reunião do mês.\n")
	helpText.WriteString("/dia <id> <AAAA-MM> <dia|->\n - Define o dia da reunião do mês (- volta ao dia de entrada).\n")
	helpText.WriteString("/checklist [AAAA-MM] [todos|pendente|nao_realizada|remarcada]\n - Reuniões do mês com botões de status.\n")
	helpText.WriteString("/atencao\n - Clientes com reunião atrasada há mais de 4 meses.\n")
	helpText.WriteString("/lembretes\n - Reuniões pendentes dos próximos dias.\n")
	helpText.WriteString("/relatorio [encerramentos|entradas]\n - Contagem mensal dos próximos 12 meses.\n")
	helpText.WriteString("/resumo [AAAA-MM]\n - Números gerais do mês.\n")
	helpText.WriteString("\nO id do cliente pode ser abreviado aos 8 primeiros caracteres.")
	return helpText.String()
}

func adminHelp() string {
	var helpText strings.Builder
	helpText.WriteString("\n\nComandos de administrador:\n\n")
	helpText.WriteString("/add_user <TelegramID> <ADMIN|ASSISTANT> <nome>\n - Cadastra ou reativa um usuário.\n")
	helpText.WriteString("/set_role <TelegramID> <ADMIN|ASSISTANT>\n - Altera o papel de um usuário.\n")
	helpText.WriteString("/remove_user <TelegramID>\n - Desativa um usuário.\n")
	helpText.WriteString("/list_users\n - Lista todos os usuários.")
	return helpText.String()
}

func RegisterBotCommands(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	identify := func(c telebot.Context, command string) (*user.User, *logrus.Entry, error) {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", command).WithField("sender_id", senderID)
		logCtx.Info("Processing command")
		u, err := adminService.Authorize(ctx, senderID)
		if err != nil && !errors.Is(err, app.ErrNotAuthorized) {
			logCtx.WithError(err).Error("Error checking user status")
		}
		return u, logCtx, err
	}

	b.Handle("/start", func(c telebot.Context) error {
		u, logCtx, err := identify(c, "/start")
		switch {
		case errors.Is(err, app.ErrNotAuthorized):
			logCtx.Info("User is unknown or inactive")
			return c.Send(fmt.Sprintf("Olá! Sou o bot de acompanhamento de reuniões. Seu ID do Telegram é %d. Peça a um administrador para cadastrá-lo.", c.Sender().ID))
		case err != nil:
			return c.Send("Ocorreu um erro ao verificar seu acesso. Tente novamente mais tarde.")
		}
		logCtx.WithField("role", u.Role).Info("User identified")
		return c.Send(fmt.Sprintf("Olá, %s! Estou pronto. Use /help para ver os comandos.", c.Sender().FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		u, _, err := identify(c, "/help")
		switch {
		case errors.Is(err, app.ErrNotAuthorized):
			return c.Send("Não há comandos disponíveis para você. Peça a um administrador para cadastrá-lo.")
		case err != nil:
			return c.Send("Ocorreu um erro ao verificar seu acesso. Tente novamente mais tarde.")
		}
		text := staffHelp()
		if u.IsAdmin() {
			text += adminHelp()
		}
		return c.Send(text)
	})
}
