// Package seed imports clients from a YAML file, e.g. when moving an existing
// spreadsheet into the bot.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// File is the document layout:
//
//	clients:
//	  - name: Maria Souza
//	    phone: "(11) 98765-4321"
//	    enrolled: 2025-01-15
//	    meetings:
//	      2025-01: {status: DONE, day: 20}
//	      2025-02: {status: RESCHEDULED}
type File struct {
	Clients []Entry `yaml:"clients"`
}

type Entry struct {
	ID       string             `yaml:"id,omitempty"`
	Name     string             `yaml:"name"`
	Phone    string             `yaml:"phone"`
	Enrolled string             `yaml:"enrolled"` // AAAA-MM-DD
	Sequence int                `yaml:"sequence,omitempty"`
	Meetings map[string]Meeting `yaml:"meetings,omitempty"`
}

type Meeting struct {
	Status string `yaml:"status"`
	Day    int    `yaml:"day,omitempty"`
}

// Result counts what Import did.
type Result struct {
	Created int
	Skipped int // id already stored
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}
	return &f, nil
}

// Client validates the entry and converts it. Sequence stays 0 when the file
// does not set it.
func (e Entry) Client() (client.Client, error) {
	enrolled, err := time.Parse("2006-01-02", e.Enrolled)
	if err != nil {
		return client.Client{}, fmt.Errorf("enrolled %q: want AAAA-MM-DD", e.Enrolled)
	}
	id := uuid.NewString()
	if e.ID != "" {
		parsed, err := uuid.Parse(e.ID)
		if err != nil {
			return client.Client{}, fmt.Errorf("id %q: %w", e.ID, err)
		}
		// Stored ids are always the lowercase hyphenated form lookups expect.
		id = parsed.String()
	}

	c, err := client.ApplyDetails(client.Client{
		ID:            id,
		StatusByMonth: map[calendar.Month]client.MeetingRecord{},
	}, client.Details{
		Name:            e.Name,
		Phone:           e.Phone,
		EnrollmentMonth: calendar.Of(enrolled),
		EnrollmentDay:   enrolled.Day(),
	})
	if err != nil {
		return client.Client{}, err
	}
	if e.Sequence < 0 {
		return client.Client{}, fmt.Errorf("%w: %d", client.ErrInvalidSequence, e.Sequence)
	}
	c.SequenceInMonth = e.Sequence

	for key, m := range e.Meetings {
		month, err := calendar.Parse(key)
		if err != nil {
			return client.Client{}, fmt.Errorf("meeting %q: %w", key, err)
		}
		status, err := client.ParseStatus(m.Status)
		if err != nil {
			return client.Client{}, fmt.Errorf("meeting %s: %w", key, err)
		}
		patch := client.StatusPatch{Status: &status}
		if m.Day != 0 {
			day := m.Day
			patch.CustomDate = &day
		}
		if c, err = client.ApplyStatusUpdate(c, month, patch); err != nil {
			return client.Client{}, fmt.Errorf("meeting %s: %w", key, err)
		}
	}
	return c, nil
}

// Import validates every entry first and only then writes, so a bad file
// stores nothing. Entries without a sequence get the next free number of
// their enrollment month.
func Import(ctx context.Context, repo client.Repository, f *File, log *logrus.Entry) (Result, error) {
	var res Result
	parsed := make([]client.Client, 0, len(f.Clients))
	for i, e := range f.Clients {
		c, err := e.Client()
		if err != nil {
			return res, fmt.Errorf("client #%d (%s): %w", i+1, e.Name, err)
		}
		parsed = append(parsed, c)
	}

	stored, err := repo.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("error listing clients: %w", err)
	}
	known := make([]client.Client, 0, len(stored)+len(parsed))
	for _, c := range stored {
		known = append(known, *c)
	}

	for _, c := range parsed {
		if c.SequenceInMonth == 0 {
			c.SequenceInMonth = cycle.NextSequence(known, c.EnrollmentMonth)
		}
		if err := repo.Create(ctx, &c); err != nil {
			if errors.Is(err, idb.ErrDuplicateClientID) {
				log.WithField("client_id", c.ID).Info("Client already stored. Skipping.")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("error importing client %s: %w", c.Name, err)
		}
		for _, problem := range cycle.Validate(c) {
			log.WithField("client_id", c.ID).Warnf("Data integrity: %v", problem)
		}
		known = append(known, c)
		res.Created++
	}
	return res, nil
}
