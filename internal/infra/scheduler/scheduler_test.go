package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlerts struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeAlerts) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAlerts) SendAttentionDigest(context.Context) error   { return f.record("attention") }
func (f *fakeAlerts) SendUpcomingReminders(context.Context) error { return f.record("reminders") }
func (f *fakeAlerts) SendMonthlyReport(context.Context) error     { return f.record("report") }

func quietLogger() (*logrus.Entry, *test.Hook) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	hook := test.NewLocal(l)
	return logrus.NewEntry(l), hook
}

var validSpecs = Specs{Attention: "0 9 * * 1-5", Reminders: "0 8 * * *", MonthlyReport: "0 10 1 * *"}

func TestAlertScheduler_StartAndStop(t *testing.T) {
	log, _ := quietLogger()
	s := NewAlertScheduler(&fakeAlerts{}, validSpecs, time.UTC, log)
	require.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 3)
	s.Stop()
}

func TestAlertScheduler_InvalidSpec(t *testing.T) {
	log, _ := quietLogger()
	specs := validSpecs
	specs.Reminders = "every morning"
	err := NewAlertScheduler(&fakeAlerts{}, specs, time.UTC, log).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upcoming_reminders")
}

func TestAlertScheduler_ExecuteRunsJobs(t *testing.T) {
	log, hook := quietLogger()
	alerts := &fakeAlerts{}
	s := NewAlertScheduler(alerts, validSpecs, time.UTC, log)
	for _, j := range s.jobs() {
		s.execute(j)
	}
	assert.Equal(t, []string{"attention", "reminders", "report"}, alerts.calls)

	alerts.err = errors.New("telegram down")
	s.execute(s.jobs()[0])
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
