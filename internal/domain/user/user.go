package user

import (
	"fmt"
	"strings"
)

// Role controls what a staff member may do through the bot.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleAssistant Role = "ASSISTANT"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleAssistant:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is a staff member of the practice who follows client cycles.
type User struct {
	ID         int64
	TelegramID int64
	Name       string
	Role       Role
	IsActive   bool
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
