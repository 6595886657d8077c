// Package notify delivers out-of-band messages to users. Delivery is
// fire-and-forget: callers log failures and move on, they never roll back
// state because an email bounced.
package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// Sender delivers a message to a recipient. Implementations may deliver
// synchronously or queue for later.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// InvitationMessage composes the invitation email for a token. The link
// lands on the frontend accept page which posts the token back.
func InvitationMessage(baseURL, token string) (subject, body string) {
	link := fmt.Sprintf("%s/accept?token=%s", baseURL, token)
	return "Invitation", fmt.Sprintf("Open this link to accept: %s", link)
}

// LogSender writes messages to the log instead of delivering them. Used in
// dev and test environments, and as the default until a real transport is
// configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.Logger.Info("notification",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
