package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/infra/config"
	idb "meeting_cycle_bot/internal/infra/database"
	"meeting_cycle_bot/internal/infra/logger"
	"meeting_cycle_bot/internal/infra/scheduler"
	"meeting_cycle_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(&cfg.DatabaseConfig)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Meeting Cycle Bot starting... LogLevel: %s, Environment: %s, Driver: %s, Timezone: %s, Admin ID: %d",
		cfg.LogLevel, cfg.Environment, cfg.Driver, cfg.Location, cfg.AdminTelegramID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Database Connection
	db, dialect, err := idb.Open(&cfg.DatabaseConfig)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Infof("Database connection established (%s).", dialect)

	// Initialize Repositories
	clientRepo := idb.NewClientRepository(db, dialect)
	userRepo := idb.NewUserRepository(db, dialect)
	notificationRepo := idb.NewNotificationRepository(db, dialect)

	// Initialize Services
	clientService := app.NewClientService(clientRepo, cfg.Location, cfg.ReminderHorizonDays, cfg.ReportWindowMonths, logger.Component("client_service"))
	if err := clientService.Load(ctx); err != nil {
		mainLogger.Fatalf("FATAL: Could not load clients: %v", err)
	}
	adminService := app.NewAdminService(userRepo, cfg.AdminTelegramID, logger.Component("admin_service"))

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID, "text": c.Text()})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	alertService := app.NewAlertService(clientService, adminService, notificationRepo, telegram.NewTelebotAdapter(bot), logger.Component("alert_service"))

	// Register Handlers
	handlerLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, adminService, handlerLogger)
	telegram.RegisterClientHandlers(ctx, bot, clientService, adminService, handlerLogger)
	telegram.RegisterChecklistHandlers(ctx, bot, clientService, adminService, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, handlerLogger)
	mainLogger.Info("Command handlers registered.")

	// Initialize AlertScheduler
	alertScheduler := scheduler.NewAlertScheduler(alertService, scheduler.Specs{
		Attention:     cfg.CronSpecAttention,
		Reminders:     cfg.CronSpecReminders,
		MonthlyReport: cfg.CronSpecMonthlyReport,
	}, cfg.Location, logger.Component("scheduler"))
	if err := alertScheduler.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start scheduler: %v", err)
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are running.")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	alertScheduler.Stop()
	cancel()
	mainLogger.Info("Application shut down gracefully.")
}
