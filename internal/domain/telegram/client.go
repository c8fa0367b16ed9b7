package telegram

import "context"

// Notifier delivers plain text to a staff member's private chat. The text is
// already split to fit a single message.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
