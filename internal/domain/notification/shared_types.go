// internal/domain/notification/shared_types.go
package notification

// Kind identifies the scheduled message being delivered.
type Kind string

const (
	KindAttentionDigest   Kind = "ATTENTION_DIGEST"
	KindUpcomingReminders Kind = "UPCOMING_REMINDERS"
	KindMonthlyReport     Kind = "MONTHLY_REPORT"
)
