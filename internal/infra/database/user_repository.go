package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt" // For error wrapping

	"meeting_cycle_bot/internal/domain/user"
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateTelegramID = fmt.Errorf("user with this Telegram ID already exists")

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := r.dialect.rebind(`INSERT INTO users (telegram_id, name, role, is_active)
               VALUES (?, ?, ?, ?)
               RETURNING id`)

	err := r.db.QueryRowContext(ctx, query, u.TelegramID, u.Name, string(u.Role), u.IsActive).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query := r.dialect.rebind(`SELECT id, telegram_id, name, role, is_active
               FROM users WHERE telegram_id = ?`)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Telegram ID: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := r.dialect.rebind(`UPDATE users
               SET name = ?, role = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, u.Name, string(u.Role), u.IsActive, u.ID)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*user.User, error) {
	query := r.dialect.rebind(`SELECT id, telegram_id, name, role, is_active
               FROM users WHERE is_active = ? ORDER BY name, id`)
	return r.list(ctx, "active users", query, true)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	query := `SELECT id, telegram_id, name, role, is_active
               FROM users ORDER BY id`
	return r.list(ctx, "all users", query)
}

func (r *UserRepository) list(ctx context.Context, what, query string, args ...any) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", what, err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	u := &user.User{}
	var role string
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &role, &u.IsActive); err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	return u, nil
}
