// internal/app/alert_service.go
package app

import (
	"context"
	"errors"
	"fmt"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/cycle"
	"meeting_cycle_bot/internal/domain/notification"
	domainTelegram "meeting_cycle_bot/internal/domain/telegram"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// AlertService sends the scheduled digests to staff. Each kind of message is
// delivered at most once per day.
type AlertService struct {
	clients  *ClientService
	admin    *AdminService
	runs     notification.Repository
	notifier domainTelegram.Notifier
	log      *logrus.Entry
}

func NewAlertService(
	cs *ClientService,
	as *AdminService,
	runs notification.Repository,
	notifier domainTelegram.Notifier,
	log *logrus.Entry,
) *AlertService {
	return &AlertService{
		clients:  cs,
		admin:    as,
		runs:     runs,
		notifier: notifier,
		log:      log,
	}
}

func (s *AlertService) SendAttentionDigest(ctx context.Context) error {
	if err := s.clients.Load(ctx); err != nil {
		return err
	}
	list := s.clients.Attention()
	if len(list.Flagged) == 0 && len(list.Unresolved) == 0 {
		s.log.Info("No clients need attention. Digest not sent.")
		return nil
	}
	return s.deliver(ctx, notification.KindAttentionDigest, FormatAttention(list, s.clients.Now()))
}

func (s *AlertService) SendUpcomingReminders(ctx context.Context) error {
	if err := s.clients.Load(ctx); err != nil {
		return err
	}
	reminders := s.clients.Upcoming()
	if len(reminders) == 0 {
		s.log.Info("No upcoming meetings. Reminders not sent.")
		return nil
	}
	return s.deliver(ctx, notification.KindUpcomingReminders, FormatReminders(reminders, s.clients.HorizonDays()))
}

// SendMonthlyReport sends the closure report and the overview of the
// month that just started.
func (s *AlertService) SendMonthlyReport(ctx context.Context) error {
	if err := s.clients.Load(ctx); err != nil {
		return err
	}
	text := FormatOverview(s.clients.Stats(calendar.Month{})) + "\n\n" +
		FormatReport(s.clients.Report(cycle.ReportClosures), cycle.ReportClosures)
	return s.deliver(ctx, notification.KindMonthlyReport, text)
}

func (s *AlertService) deliver(ctx context.Context, kind notification.Kind, text string) error {
	today := s.clients.Now()
	entry := s.log.WithFields(logrus.Fields{"kind": kind, "date": today.Format("2006-01-02")})

	run := &notification.Run{RunDate: today, Kind: kind}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		if errors.Is(err, idb.ErrDuplicateRun) {
			entry.Info("Already delivered today. Skipping.")
			return nil
		}
		return fmt.Errorf("failed to record notification run: %w", err)
	}

	recipients, err := s.admin.Recipients(ctx)
	if err != nil {
		return err
	}

	delivered := 0
	chunks := SplitMessage(text, MaxMessageLength)
	for _, chatID := range recipients {
		ok := true
		for _, chunk := range chunks {
			if err := s.notifier.Notify(ctx, chatID, chunk); err != nil {
				entry.WithField("chat_id", chatID).Errorf("Failed to send message: %v", err)
				ok = false
				break
			}
		}
		if ok {
			delivered++
		}
	}

	if err := s.runs.UpdateRunDelivered(ctx, run.ID, delivered); err != nil {
		entry.Errorf("Failed to record delivery count: %v", err)
	}
	entry.Infof("Delivered to %d of %d recipients", delivered, len(recipients))
	if delivered == 0 && len(recipients) > 0 {
		return fmt.Errorf("%s: no recipient received the message", kind)
	}
	return nil
}
