// internal/domain/notification/run.go
package notification

import "time"

// Run records one delivery of a scheduled message, e.g. the attention digest
// of 2025-05-12. At most one run exists per date and kind.
type Run struct {
	ID        int64
	RunDate   time.Time // date part only
	Kind      Kind
	Delivered int // recipients that received the message
}
