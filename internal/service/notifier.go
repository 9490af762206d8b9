package service

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers out-of-band messages carrying raw one-time tokens. The
// raw token exists only in flight: the store keeps fingerprints, so the
// notifier is the single point where the secret leaves the process.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendWorkspaceInvite(ctx context.Context, email, workspaceID, workspaceName, token string, expiresAt time.Time) error
}

// LogNotifier writes the notifications to the log instead of sending mail.
// Useful for local development and as the default until an SMTP/webhook
// notifier is wired in.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	n.Logger.Info("verification email",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}

func (n *LogNotifier) SendWorkspaceInvite(ctx context.Context, email, workspaceID, workspaceName, token string, expiresAt time.Time) error {
	n.Logger.Info("workspace invite email",
		slog.String("email", email),
		slog.String("workspace_id", workspaceID),
		slog.String("workspace", workspaceName),
		slog.String("token", token),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}
