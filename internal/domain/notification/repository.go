// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository keeps the delivery log of scheduled messages.
type Repository interface {
	// CreateRun claims the (date, kind) slot. It fails with a duplicate error
	// when the slot was already claimed, so a message is sent once per day.
	CreateRun(ctx context.Context, run *Run) error
	GetRunByDateAndKind(ctx context.Context, runDate time.Time, kind Kind) (*Run, error)
	UpdateRunDelivered(ctx context.Context, id int64, delivered int) error
}
