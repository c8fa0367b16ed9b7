package client

import (
	"context"

	"meeting_cycle_bot/internal/domain/calendar"
)

// Repository defines the operations for persisting and retrieving clients.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	ListAll(ctx context.Context) ([]*Client, error) // ordered by enrollment month, then sequence
	UpdateStatusByMonth(ctx context.Context, id string, statuses map[calendar.Month]MeetingRecord) error
	UpdateSequence(ctx context.Context, id string, seq int) error
	UpdateDetails(ctx context.Context, c *Client) error // name, phone, enrollment month and day
	Delete(ctx context.Context, id string) error
}
