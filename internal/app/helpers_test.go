package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := idb.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func month(s string) calendar.Month { return calendar.MustParse(s) }

// flakyClientRepo fails writes while fail is set.
type flakyClientRepo struct {
	client.Repository
	mu   sync.Mutex
	fail bool
}

func (r *flakyClientRepo) setFail(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = v
}

func (r *flakyClientRepo) failing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fail
}

func (r *flakyClientRepo) UpdateStatusByMonth(ctx context.Context, id string, statuses map[calendar.Month]client.MeetingRecord) error {
	if r.failing() {
		return errStoreDown
	}
	return r.Repository.UpdateStatusByMonth(ctx, id, statuses)
}

func (r *flakyClientRepo) Create(ctx context.Context, c *client.Client) error {
	if r.failing() {
		return errStoreDown
	}
	return r.Repository.Create(ctx, c)
}

func (r *flakyClientRepo) Delete(ctx context.Context, id string) error {
	if r.failing() {
		return errStoreDown
	}
	return r.Repository.Delete(ctx, id)
}

type sentMessage struct {
	chatID int64
	text   string
}

type recordingTelegram struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
}

func (r *recordingTelegram) Notify(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[chatID] {
		return errors.New("chat not found")
	}
	r.sent = append(r.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (r *recordingTelegram) recipients() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.chatID)
	}
	return out
}

// newClientService wires a service on an in-memory store with the clock set
// to now.
func newClientService(t *testing.T, now time.Time) (*ClientService, *flakyClientRepo, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := &flakyClientRepo{Repository: idb.NewClientRepository(db, idb.SQLite)}
	svc := NewClientService(repo, saoPaulo, 7, 12, testLog())
	svc.SetClock(fixedClock(now))
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo, db
}
