package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meeting_cycle_bot/internal/domain/notification"
)

// Custom errors specific to notification repository
var ErrRunNotFound = fmt.Errorf("notification run not found")
var ErrDuplicateRun = fmt.Errorf("notification run already exists for this date and kind")

const runDateLayout = "2006-01-02"

type NotificationRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewNotificationRepository(db *sql.DB, dialect Dialect) *NotificationRepository {
	return &NotificationRepository{db: db, dialect: dialect}
}

var _ notification.Repository = (*NotificationRepository)(nil)

func (r *NotificationRepository) CreateRun(ctx context.Context, run *notification.Run) error {
	query := r.dialect.rebind(`INSERT INTO notification_runs (run_date, kind, delivered)
               VALUES (?, ?, ?)
               RETURNING id`)
	// Normalize to the date part; the location of RunDate decides the day.
	err := r.db.QueryRowContext(ctx, query, run.RunDate.Format(runDateLayout), string(run.Kind), run.Delivered).Scan(&run.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRun
		}
		return fmt.Errorf("error creating notification run: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetRunByDateAndKind(ctx context.Context, runDate time.Time, kind notification.Kind) (*notification.Run, error) {
	query := r.dialect.rebind(`SELECT id, run_date, kind, delivered FROM notification_runs
               WHERE run_date = ? AND kind = ?`)
	var (
		run     notification.Run
		dateStr string
		kindStr string
	)
	err := r.db.QueryRowContext(ctx, query, runDate.Format(runDateLayout), string(kind)).Scan(&run.ID, &dateStr, &kindStr, &run.Delivered)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("error getting notification run by date and kind: %w", err)
	}
	run.RunDate, err = time.ParseInLocation(runDateLayout, dateStr, runDate.Location())
	if err != nil {
		return nil, fmt.Errorf("error parsing notification run date %q: %w", dateStr, err)
	}
	run.Kind = notification.Kind(kindStr)
	return &run, nil
}

func (r *NotificationRepository) UpdateRunDelivered(ctx context.Context, id int64, delivered int) error {
	query := r.dialect.rebind(`UPDATE notification_runs SET delivered = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, delivered, id)
	if err != nil {
		return fmt.Errorf("error updating notification run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}
