package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Alerts is the part of the application the scheduler drives.
type Alerts interface {
	SendAttentionDigest(ctx context.Context) error
	SendUpcomingReminders(ctx context.Context) error
	SendMonthlyReport(ctx context.Context) error
}

// Specs holds the cron expressions of each job.
type Specs struct {
	Attention     string // e.g. "0 9 * * 1-5" (9 AM on weekdays)
	Reminders     string // e.g. "0 8 * * *" (8 AM daily)
	MonthlyReport string // e.g. "0 10 1 * *" (10 AM on the 1st)
}

const jobTimeout = 2 * time.Minute

type job struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

type AlertScheduler struct {
	cronEngine *cron.Cron
	alerts     Alerts
	specs      Specs
	logger     *logrus.Entry
}

func NewAlertScheduler(alerts Alerts, specs Specs, loc *time.Location, logger *logrus.Entry) *AlertScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &AlertScheduler{
		cronEngine: cron.New(cron.WithLocation(loc)),
		alerts:     alerts,
		specs:      specs,
		logger:     logger,
	}
}

func (s *AlertScheduler) jobs() []job {
	return []job{
		{name: "attention_digest", spec: s.specs.Attention, run: s.alerts.SendAttentionDigest},
		{name: "upcoming_reminders", spec: s.specs.Reminders, run: s.alerts.SendUpcomingReminders},
		{name: "monthly_report", spec: s.specs.MonthlyReport, run: s.alerts.SendMonthlyReport},
	}
}

// Start registers every job and starts the cron engine. An invalid cron
// expression is returned before anything runs.
func (s *AlertScheduler) Start() error {
	s.logger.Info("Starting alert scheduler...")
	for _, j := range s.jobs() {
		if _, err := s.cronEngine.AddFunc(j.spec, func() { s.execute(j) }); err != nil {
			return fmt.Errorf("could not add %s cron job (%q): %w", j.name, j.spec, err)
		}
		s.logger.WithFields(logrus.Fields{"job": j.name, "spec": j.spec}).Info("Cron job registered")
	}
	s.cronEngine.Start()
	s.logger.Info("Alert scheduler started with jobs.")
	return nil
}

func (s *AlertScheduler) execute(j job) {
	entry := s.logger.WithField("job", j.name)
	entry.Info("Cron job triggered.")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := time.Now()
	if err := j.run(ctx); err != nil {
		entry.Errorf("Job failed: %v", err)
		return
	}
	entry.WithField("elapsed", time.Since(started).String()).Info("Job finished.")
}

func (s *AlertScheduler) Stop() {
	s.logger.Info("Stopping alert scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Alert scheduler gracefully stopped.")
}
