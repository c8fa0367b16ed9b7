package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meeting_cycle_bot/internal/domain/user"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for admin service
var ErrNotAuthorized = fmt.Errorf("user is not authorized for this operation")
var ErrUserAlreadyExists = fmt.Errorf("user with this Telegram ID already exists")
var ErrUserAlreadyInactive = fmt.Errorf("user is already inactive")
var ErrCannotChangeBootstrapAdmin = fmt.Errorf("the configured administrator cannot be changed")

type AdminService struct {
	userRepo        user.Repository
	adminTelegramID int64
	log             *logrus.Entry
}

func NewAdminService(ur user.Repository, adminID int64, log *logrus.Entry) *AdminService {
	return &AdminService{
		userRepo:        ur,
		adminTelegramID: adminID,
		log:             log,
	}
}

// Authorize resolves who is talking to the bot. The configured administrator
// is always an active ADMIN, even without a stored row.
func (s *AdminService) Authorize(ctx context.Context, telegramID int64) (*user.User, error) {
	if telegramID == s.adminTelegramID {
		return &user.User{TelegramID: telegramID, Name: "Administrador", Role: user.RoleAdmin, IsActive: true}, nil
	}
	u, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrNotAuthorized
	}
	return u, nil
}

func (s *AdminService) requireAdmin(ctx context.Context, performingID int64) error {
	u, err := s.Authorize(ctx, performingID)
	if err != nil {
		return err
	}
	if !u.IsAdmin() {
		return ErrNotAuthorized
	}
	return nil
}

// AddUser registers a staff member, or reactivates one that was removed.
func (s *AdminService) AddUser(ctx context.Context, performingID, telegramID int64, role user.Role, name string) (*user.User, error) {
	if err := s.requireAdmin(ctx, performingID); err != nil {
		return nil, err
	}
	if telegramID == s.adminTelegramID {
		return nil, ErrCannotChangeBootstrapAdmin
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name must not be empty")
	}

	existing, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		if existing.IsActive {
			return nil, ErrUserAlreadyExists
		}
		existing.IsActive = true
		existing.Role = role
		existing.Name = name
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate user: %w", err)
		}
		s.log.WithFields(logrus.Fields{"telegram_id": telegramID, "role": role}).Info("User reactivated")
		return existing, nil
	}
	if !errors.Is(err, idb.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	newUser := &user.User{
		TelegramID: telegramID,
		Name:       name,
		Role:       role,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramID) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	s.log.WithFields(logrus.Fields{"telegram_id": telegramID, "role": role}).Info("User added")
	return newUser, nil
}

func (s *AdminService) SetRole(ctx context.Context, performingID, telegramID int64, role user.Role) (*user.User, error) {
	if err := s.requireAdmin(ctx, performingID); err != nil {
		return nil, err
	}
	if telegramID == s.adminTelegramID {
		return nil, ErrCannotChangeBootstrapAdmin
	}
	target, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	target.Role = role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return target, nil
}

// DeactivateUser revokes access. The row is kept.
func (s *AdminService) DeactivateUser(ctx context.Context, performingID, telegramID int64) (*user.User, error) {
	if err := s.requireAdmin(ctx, performingID); err != nil {
		return nil, err
	}
	if telegramID == s.adminTelegramID {
		return nil, ErrCannotChangeBootstrapAdmin
	}
	target, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return target, ErrUserAlreadyInactive
	}
	target.IsActive = false
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update user to inactive in repository: %w", err)
	}
	s.log.WithFields(logrus.Fields{"telegram_id": telegramID}).Info("User deactivated")
	return target, nil
}

func (s *AdminService) ListUsers(ctx context.Context, performingID int64) ([]*user.User, error) {
	if err := s.requireAdmin(ctx, performingID); err != nil {
		return nil, err
	}
	return s.userRepo.ListAll(ctx)
}

// Recipients returns the chat ids that receive scheduled messages: every
// active user plus the configured administrator, without duplicates.
func (s *AdminService) Recipients(ctx context.Context) ([]int64, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	ids := []int64{s.adminTelegramID}
	seen := map[int64]bool{s.adminTelegramID: true}
	for _, u := range users {
		if seen[u.TelegramID] {
			continue
		}
		seen[u.TelegramID] = true
		ids = append(ids, u.TelegramID)
	}
	return ids, nil
}
