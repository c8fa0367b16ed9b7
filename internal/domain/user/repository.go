package user

import (
	"context"
)

// Repository defines the operations for persisting and retrieving staff users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	Update(ctx context.Context, u *User) error // Name, Role and IsActive
	ListActive(ctx context.Context) ([]*User, error)
	ListAll(ctx context.Context) ([]*User, error) // For admin purposes
}
