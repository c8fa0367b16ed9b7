package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterClient(id string) client.Client {
	return client.Client{
		ID:              id,
		Name:            "Cliente " + id,
		EnrollmentMonth: month("2025-01"),
		EnrollmentDay:   10,
		SequenceInMonth: 1,
		StatusByMonth:   map[calendar.Month]client.MeetingRecord{},
	}
}

func setDone(m string) Mutation {
	return func(c client.Client) (client.Client, error) {
		done := client.StatusDone
		return client.ApplyStatusUpdate(c, month(m), client.StatusPatch{Status: &done})
	}
}

func okCommit(context.Context, client.Client) error { return nil }

func failCommit(context.Context, client.Client) error { return errStoreDown }

func TestRoster_ProposeCommits(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})

	next, err := r.Propose(context.Background(), "a", setDone("2025-01"), okCommit)
	require.NoError(t, err)
	assert.Equal(t, client.StatusDone, next.StatusByMonth[month("2025-01")].Status)

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, next, got)
}

func TestRoster_ProposeRollsBackOnCommitFailure(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})

	_, err := r.Propose(context.Background(), "a", setDone("2025-01"), failCommit)
	assert.ErrorIs(t, err, errStoreDown)

	got, _ := r.Get("a")
	assert.Empty(t, got.StatusByMonth)
}

func TestRoster_RollbackKeepsNewerChange(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})

	// A reload lands while the commit is in flight, then the commit fails.
	reloaded := rosterClient("a")
	reloaded.StatusByMonth[month("2025-02")] = client.MeetingRecord{Status: client.StatusDone}
	slowFail := func(context.Context, client.Client) error {
		r.Replace([]client.Client{reloaded})
		return errStoreDown
	}
	_, err := r.Propose(context.Background(), "a", setDone("2025-01"), slowFail)
	assert.ErrorIs(t, err, errStoreDown)

	got, _ := r.Get("a")
	assert.Contains(t, got.StatusByMonth, month("2025-02"))
	assert.NotContains(t, got.StatusByMonth, month("2025-01"))
}

// statusStore keeps the last status map written per client, like the
// status_by_month column.
type statusStore struct {
	mu     sync.Mutex
	stored map[string]map[calendar.Month]client.MeetingRecord
}

func (s *statusStore) commit(_ context.Context, next client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored[next.ID] = next.StatusByMonth
	return nil
}

func (s *statusStore) months(id string) []calendar.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calendar.Month, 0, len(s.stored[id]))
	for m := range s.stored[id] {
		out = append(out, m)
	}
	return out
}

func TestRoster_ConcurrentChangesReachStoreInOrder(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})
	store := &statusStore{stored: map[string]map[calendar.Month]client.MeetingRecord{}}
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slowCommit := func(ctx context.Context, next client.Client) error {
		close(started)
		<-release
		return store.commit(ctx, next)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := r.Propose(ctx, "a", setDone("2025-01"), slowCommit)
		assert.NoError(t, err)
	}()
	<-started

	secondDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(secondDone)
		_, err := r.Propose(ctx, "a", setDone("2025-02"), store.commit)
		assert.NoError(t, err)
	}()

	select {
	case <-secondDone:
		t.Fatal("second change committed while the first was still in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	wg.Wait()

	assert.ElementsMatch(t, []calendar.Month{month("2025-01"), month("2025-02")}, store.months("a"))
	got, _ := r.Get("a")
	assert.Len(t, got.StatusByMonth, 2)
}

func TestRoster_ChangesToDifferentClientsDoNotWait(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a"), rosterClient("b")})
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Propose(ctx, "a", setDone("2025-01"), func(context.Context, client.Client) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	_, err := r.Propose(ctx, "b", setDone("2025-01"), okCommit)
	require.NoError(t, err)
	close(release)
	<-done
}

func TestRoster_MutationErrorLeavesValue(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})
	_, err := r.Propose(context.Background(), "a", func(c client.Client) (client.Client, error) {
		return client.ApplySequence(c, 0)
	}, okCommit)
	assert.ErrorIs(t, err, client.ErrInvalidSequence)

	got, _ := r.Get("a")
	assert.Equal(t, 1, got.SequenceInMonth)

	_, err = r.Propose(context.Background(), "missing", setDone("2025-01"), okCommit)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRoster_SnapshotIsIsolated(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("a")})

	snap := r.Snapshot()
	snap[0].StatusByMonth[month("2025-01")] = client.MeetingRecord{Status: client.StatusDone}

	got, _ := r.Get("a")
	assert.Empty(t, got.StatusByMonth)
}

func TestRoster_InsertAndRemoveRollback(t *testing.T) {
	r := NewRoster()
	ctx := context.Background()

	assert.ErrorIs(t, r.Insert(ctx, rosterClient("a"), failCommit), errStoreDown)
	assert.Equal(t, 0, r.Len())

	require.NoError(t, r.Insert(ctx, rosterClient("a"), okCommit))
	assert.Error(t, r.Insert(ctx, rosterClient("a"), okCommit))

	err := r.Remove(ctx, "a", func(context.Context, string) error { return errStoreDown })
	assert.ErrorIs(t, err, errStoreDown)
	_, ok := r.Get("a")
	assert.True(t, ok)

	require.NoError(t, r.Remove(ctx, "a", func(context.Context, string) error { return nil }))
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, r.Remove(ctx, "a", func(context.Context, string) error { return nil }), ErrClientNotFound)
}

func TestRoster_Lookup(t *testing.T) {
	r := NewRoster()
	r.Replace([]client.Client{rosterClient("abc12345-0000"), rosterClient("abc12399-0000"), rosterClient("ffff0000-1111")})

	c, err := r.Lookup("FFFF")
	require.NoError(t, err)
	assert.Equal(t, "ffff0000-1111", c.ID)

	c, err = r.Lookup("abc12345-0000")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", c.ID)

	_, err = r.Lookup("abc123")
	assert.ErrorIs(t, err, ErrAmbiguousClientID)

	_, err = r.Lookup("zzz")
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = r.Lookup(" ")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
