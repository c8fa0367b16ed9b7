package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/client"
)

// Custom errors
var ErrClientNotFound = fmt.Errorf("client not found")
var ErrDuplicateClientID = fmt.Errorf("client with this ID already exists")

const clientColumns = `id, name, phone_digits, enrollment_month, enrollment_day, sequence_in_month, status_by_month`

// ClientRepository implements client.Repository on PostgreSQL or SQLite.
type ClientRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewClientRepository(db *sql.DB, dialect Dialect) *ClientRepository {
	return &ClientRepository{db: db, dialect: dialect}
}

var _ client.Repository = (*ClientRepository)(nil)

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	statuses, err := encodeStatuses(c.StatusByMonth)
	if err != nil {
		return err
	}
	query := r.dialect.rebind(`INSERT INTO clients (` + clientColumns + `)
               VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.PhoneDigits, c.EnrollmentMonth.String(), nullDay(c.EnrollmentDay), c.SequenceInMonth, statuses)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateClientID
		}
		return fmt.Errorf("error creating client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	query := r.dialect.rebind(`SELECT ` + clientColumns + ` FROM clients WHERE id = ?`)
	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("error getting client by ID: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) ListAll(ctx context.Context) ([]*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
               ORDER BY enrollment_month, sequence_in_month, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*client.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning client: %w", err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) UpdateStatusByMonth(ctx context.Context, id string, statuses map[calendar.Month]client.MeetingRecord) error {
	encoded, err := encodeStatuses(statuses)
	if err != nil {
		return err
	}
	query := r.dialect.rebind(`UPDATE clients
               SET status_by_month = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`)
	return r.execOne(ctx, "status_by_month", query, encoded, id)
}

func (r *ClientRepository) UpdateSequence(ctx context.Context, id string, seq int) error {
	query := r.dialect.rebind(`UPDATE clients
               SET sequence_in_month = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`)
	return r.execOne(ctx, "sequence", query, seq, id)
}

func (r *ClientRepository) UpdateDetails(ctx context.Context, c *client.Client) error {
	query := r.dialect.rebind(`UPDATE clients
               SET name = ?, phone_digits = ?, enrollment_month = ?, enrollment_day = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`)
	return r.execOne(ctx, "details", query,
		c.Name, c.PhoneDigits, c.EnrollmentMonth.String(), nullDay(c.EnrollmentDay), c.ID)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	query := r.dialect.rebind(`DELETE FROM clients WHERE id = ?`)
	return r.execOne(ctx, "delete", query, id)
}

func (r *ClientRepository) execOne(ctx context.Context, what, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating client %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for client %s: %w", what, err)
	}
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*client.Client, error) {
	var (
		c        client.Client
		month    string
		day      sql.NullInt64
		statuses []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.PhoneDigits, &month, &day, &c.SequenceInMonth, &statuses); err != nil {
		return nil, err
	}

	m, err := calendar.Parse(month)
	if err != nil {
		return nil, fmt.Errorf("client %s: enrollment month: %w", c.ID, err)
	}
	c.EnrollmentMonth = m
	if day.Valid {
		c.EnrollmentDay = int(day.Int64)
	}

	c.StatusByMonth = map[calendar.Month]client.MeetingRecord{}
	if len(statuses) > 0 {
		if err := json.Unmarshal(statuses, &c.StatusByMonth); err != nil {
			return nil, fmt.Errorf("client %s: status_by_month: %w", c.ID, err)
		}
	}
	return &c, nil
}

func encodeStatuses(statuses map[calendar.Month]client.MeetingRecord) (string, error) {
	if len(statuses) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(statuses)
	if err != nil {
		return "", fmt.Errorf("error encoding status_by_month: %w", err)
	}
	return string(b), nil
}

func nullDay(day int) sql.NullInt64 {
	if !client.ValidDay(day) {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(day), Valid: true}
}
