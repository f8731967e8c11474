// Package notify delivers messages to users through the chat transport.
package notify

import "context"

// Notifier is the send-text-message primitive the reminder sweep and the
// debt/piggy-bank confirmations use. The chat transport supplies the
// concrete channel.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}
