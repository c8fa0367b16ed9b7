package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
	"meeting_cycle_bot/internal/domain/cycle"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewClient is the input of AddClient. Sequence 0 means next free number in
// the enrollment month.
type NewClient struct {
	Name            string
	Phone           string
	EnrollmentMonth calendar.Month
	EnrollmentDay   int
	Sequence        int
}

// AttentionList separates flagged clients from those whose state could not
// be decided.
type AttentionList struct {
	Flagged    []client.Client
	Unresolved []client.Client // enrollment day unknown
}

// ClientService owns the roster and keeps it in sync with the repository.
type ClientService struct {
	repo         client.Repository
	roster       *Roster
	loc          *time.Location
	now          func() time.Time
	horizonDays  int
	windowMonths int
	log          *logrus.Entry
}

func NewClientService(repo client.Repository, loc *time.Location, horizonDays, windowMonths int, log *logrus.Entry) *ClientService {
	if loc == nil {
		loc = time.Local
	}
	return &ClientService{
		repo:         repo,
		roster:       NewRoster(),
		loc:          loc,
		now:          time.Now,
		horizonDays:  horizonDays,
		windowMonths: windowMonths,
		log:          log,
	}
}

// SetClock replaces the time source.
func (s *ClientService) SetClock(now func() time.Time) {
	s.now = now
}

// Now is the current time in the configured location.
func (s *ClientService) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *ClientService) HorizonDays() int {
	return s.horizonDays
}

// Load replaces the roster with the repository contents.
func (s *ClientService) Load(ctx context.Context) error {
	stored, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	clients := make([]client.Client, 0, len(stored))
	for _, c := range stored {
		for _, problem := range cycle.Validate(*c) {
			s.log.WithFields(logrus.Fields{"client_id": c.ID}).Warnf("Data integrity: %v", problem)
		}
		clients = append(clients, *c)
	}
	s.roster.Replace(clients)
	s.log.Infof("Loaded %d clients", len(clients))
	return nil
}

func (s *ClientService) Lookup(idOrPrefix string) (client.Client, error) {
	return s.roster.Lookup(idOrPrefix)
}

func (s *ClientService) AddClient(ctx context.Context, in NewClient) (client.Client, error) {
	c, err := client.ApplyDetails(client.Client{
		ID:            uuid.NewString(),
		StatusByMonth: map[calendar.Month]client.MeetingRecord{},
	}, client.Details{
		Name:            in.Name,
		Phone:           in.Phone,
		EnrollmentMonth: in.EnrollmentMonth,
		EnrollmentDay:   in.EnrollmentDay,
	})
	if err != nil {
		return client.Client{}, err
	}
	c.SequenceInMonth = in.Sequence
	if c.SequenceInMonth == 0 {
		c.SequenceInMonth = cycle.NextSequence(s.roster.Snapshot(), c.EnrollmentMonth)
	}
	if c.SequenceInMonth < 1 {
		return client.Client{}, fmt.Errorf("%w: %d", client.ErrInvalidSequence, c.SequenceInMonth)
	}

	err = s.roster.Insert(ctx, c, func(ctx context.Context, next client.Client) error {
		return s.repo.Create(ctx, &next)
	})
	if err != nil {
		return client.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	s.log.WithFields(logrus.Fields{"client_id": c.ID, "enrollment_month": c.EnrollmentMonth.String()}).Info("Client created")
	return c, nil
}

func (s *ClientService) UpdateDetails(ctx context.Context, id string, d client.Details) (client.Client, error) {
	return s.propose(ctx, id, "details",
		func(c client.Client) (client.Client, error) { return client.ApplyDetails(c, d) },
		func(ctx context.Context, next client.Client) error { return s.repo.UpdateDetails(ctx, &next) })
}

func (s *ClientService) SetSequence(ctx context.Context, id string, seq int) (client.Client, error) {
	return s.propose(ctx, id, "sequence",
		func(c client.Client) (client.Client, error) { return client.ApplySequence(c, seq) },
		func(ctx context.Context, next client.Client) error {
			return s.repo.UpdateSequence(ctx, next.ID, next.SequenceInMonth)
		})
}

func (s *ClientService) SetMeetingStatus(ctx context.Context, id string, month calendar.Month, status client.Status) (client.Client, error) {
	return s.patch(ctx, id, month, client.StatusPatch{Status: &status})
}

// SetMeetingDay overrides the meeting day of month; a nil day restores the
// enrollment day.
func (s *ClientService) SetMeetingDay(ctx context.Context, id string, month calendar.Month, day *int) (client.Client, error) {
	if day == nil {
		return s.patch(ctx, id, month, client.StatusPatch{ClearCustomDate: true})
	}
	return s.patch(ctx, id, month, client.StatusPatch{CustomDate: day})
}

// MarkDone records the meeting of month as held today.
func (s *ClientService) MarkDone(ctx context.Context, id string, month calendar.Month) (client.Client, error) {
	done := client.StatusDone
	today := s.Now().Day()
	return s.patch(ctx, id, month, client.StatusPatch{Status: &done, CustomDate: &today})
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.roster.Remove(ctx, id, s.repo.Delete); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"client_id": id}).Info("Client deleted")
	return nil
}

func (s *ClientService) patch(ctx context.Context, id string, month calendar.Month, p client.StatusPatch) (client.Client, error) {
	return s.propose(ctx, id, "status",
		func(c client.Client) (client.Client, error) { return client.ApplyStatusUpdate(c, month, p) },
		func(ctx context.Context, next client.Client) error {
			return s.repo.UpdateStatusByMonth(ctx, next.ID, next.StatusByMonth)
		})
}

func (s *ClientService) propose(ctx context.Context, id, what string, mutate Mutation, commit CommitFunc) (client.Client, error) {
	next, err := s.roster.Propose(ctx, id, mutate, commit)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return client.Client{}, err
		}
		s.log.WithFields(logrus.Fields{"client_id": id, "change": what}).Warnf("Client change rejected: %v", err)
		return client.Client{}, fmt.Errorf("failed to update client %s: %w", what, err)
	}
	return next, nil
}

func (s *ClientService) List(f cycle.Filter) []client.Client {
	f.Search = strings.TrimSpace(f.Search)
	return cycle.Select(s.roster.Snapshot(), f, s.Now())
}

func (s *ClientService) Checklist(month calendar.Month, sub cycle.SubFilter) cycle.Checklist {
	if month.IsZero() {
		month = calendar.Of(s.Now())
	}
	return cycle.BuildChecklist(s.roster.Snapshot(), month, sub)
}

func (s *ClientService) Attention() AttentionList {
	var out AttentionList
	now := s.Now()
	for _, c := range s.roster.Snapshot() {
		flagged, err := cycle.NeedsAttention(c, now)
		if err != nil {
			out.Unresolved = append(out.Unresolved, c)
			continue
		}
		if flagged {
			out.Flagged = append(out.Flagged, c)
		}
	}
	return out
}

// Report counts per month over the configured window starting at the
// current month.
func (s *ClientService) Report(mode cycle.ReportMode) []cycle.ReportRow {
	window := cycle.Window(calendar.Of(s.Now()), s.windowMonths)
	return cycle.BuildMonthlyReport(s.roster.Snapshot(), window, mode)
}

func (s *ClientService) Stats(month calendar.Month) cycle.Overview {
	if month.IsZero() {
		month = calendar.Of(s.Now())
	}
	return cycle.Summarize(s.roster.Snapshot(), month, s.Now())
}

func (s *ClientService) Upcoming() []cycle.Reminder {
	return cycle.UpcomingReminders(s.roster.Snapshot(), s.Now(), s.horizonDays)
}
