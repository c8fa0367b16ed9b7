package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"
)

var ErrClientNotFound = fmt.Errorf("client not found")
var ErrAmbiguousClientID = fmt.Errorf("client id prefix matches more than one client")

// Mutation is a pure transform of a client value.
type Mutation func(client.Client) (client.Client, error)

// CommitFunc persists a value already installed in the roster.
type CommitFunc func(ctx context.Context, next client.Client) error

type rosterEntry struct {
	client  client.Client
	version uint64
}

// Roster is the authoritative in-memory collection of clients. Changes are
// installed optimistically and reverted when the commit fails, unless a
// newer change to the same client has been installed meanwhile.
//
// Changes to one client are serialized from mutate through commit, so
// commits reach storage in the order they were installed.
type Roster struct {
	mu      sync.RWMutex
	entries map[string]rosterEntry
	version uint64

	writersMu sync.Mutex
	writers   map[string]*sync.Mutex
}

func NewRoster() *Roster {
	return &Roster{
		entries: map[string]rosterEntry{},
		writers: map[string]*sync.Mutex{},
	}
}

// writer returns the lock guarding changes to one client id.
func (r *Roster) writer(id string) *sync.Mutex {
	r.writersMu.Lock()
	defer r.writersMu.Unlock()
	w, ok := r.writers[id]
	if !ok {
		w = &sync.Mutex{}
		r.writers[id] = w
	}
	return w
}

// Replace swaps the whole collection, e.g. after loading from storage.
func (r *Roster) Replace(clients []client.Client) {
	entries := make(map[string]rosterEntry, len(clients))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range clients {
		r.version++
		entries[c.ID] = rosterEntry{client: c.Clone(), version: r.version}
	}
	r.entries = entries
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Roster) Get(id string) (client.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return client.Client{}, false
	}
	return e.client.Clone(), true
}

// Lookup finds a client by full id or by an unambiguous id prefix.
func (r *Roster) Lookup(idOrPrefix string) (client.Client, error) {
	key := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if key == "" {
		return client.Client{}, ErrClientNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[key]; ok {
		return e.client.Clone(), nil
	}
	var found *client.Client
	for id, e := range r.entries {
		if !strings.HasPrefix(id, key) {
			continue
		}
		if found != nil {
			return client.Client{}, fmt.Errorf("%w: %q", ErrAmbiguousClientID, idOrPrefix)
		}
		c := e.client
		found = &c
	}
	if found == nil {
		return client.Client{}, ErrClientNotFound
	}
	return found.Clone(), nil
}

// Snapshot returns a sorted deep copy of every client.
func (r *Roster) Snapshot() []client.Client {
	r.mu.RLock()
	out := make([]client.Client, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.client.Clone())
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b client.Client) int { return strings.Compare(a.ID, b.ID) })
	cycle.Sort(out)
	return out
}

// Propose applies mutate to the client with the given id, installs the result
// and calls commit. When commit fails the previous value is restored and the
// commit error is returned. A second Propose for the same id waits until the
// first one has committed or rolled back.
func (r *Roster) Propose(ctx context.Context, id string, mutate Mutation, commit CommitFunc) (client.Client, error) {
	w := r.writer(id)
	w.Lock()
	defer w.Unlock()

	r.mu.Lock()
	prev, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return client.Client{}, ErrClientNotFound
	}
	next, err := mutate(prev.client.Clone())
	if err != nil {
		r.mu.Unlock()
		return client.Client{}, err
	}
	r.version++
	mine := r.version
	r.entries[id] = rosterEntry{client: next.Clone(), version: mine}
	r.mu.Unlock()

	if err := commit(ctx, next.Clone()); err != nil {
		r.mu.Lock()
		if cur, ok := r.entries[id]; ok && cur.version == mine {
			r.version++
			r.entries[id] = rosterEntry{client: prev.client, version: r.version}
		}
		r.mu.Unlock()
		return client.Client{}, err
	}
	return next, nil
}

// Insert adds a new client and commits it, removing it again on failure.
func (r *Roster) Insert(ctx context.Context, c client.Client, commit CommitFunc) error {
	w := r.writer(c.ID)
	w.Lock()
	defer w.Unlock()

	r.mu.Lock()
	if _, exists := r.entries[c.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("client %s already in roster", c.ID)
	}
	r.version++
	mine := r.version
	r.entries[c.ID] = rosterEntry{client: c.Clone(), version: mine}
	r.mu.Unlock()

	if err := commit(ctx, c.Clone()); err != nil {
		r.mu.Lock()
		if cur, ok := r.entries[c.ID]; ok && cur.version == mine {
			delete(r.entries, c.ID)
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// Remove deletes a client and commits the deletion, restoring it on failure.
func (r *Roster) Remove(ctx context.Context, id string, commit func(ctx context.Context, id string) error) error {
	w := r.writer(id)
	w.Lock()
	defer w.Unlock()

	r.mu.Lock()
	prev, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	delete(r.entries, id)
	r.mu.Unlock()

	if err := commit(ctx, id); err != nil {
		r.mu.Lock()
		if _, taken := r.entries[id]; !taken {
			r.version++
			r.entries[id] = rosterEntry{client: prev.client, version: r.version}
		}
		r.mu.Unlock()
		return err
	}
	return nil
}
