package domain

import "time"

// InviteStatus is derived at read time, never stored: acceptance is the only
// persisted transition, expiry falls out of the clock.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusExpired  InviteStatus = "EXPIRED"
)

// WorkspaceInvite is a time-bounded, single-use capability granting future
// membership. It references the invitee by normalized email only; the account
// may not exist yet when the invite is created.
type WorkspaceInvite struct {
	ID          string
	WorkspaceID string
	Email       string // normalized; the only party eligible to accept
	TokenHash   string // SHA-256 fingerprint; the raw token is never stored
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	CreatedBy   string
	CreatedAt   time.Time
}

func NewWorkspaceInvite(id, workspaceID, email, tokenHash, createdBy string, expiresAt, now time.Time) WorkspaceInvite {
	return WorkspaceInvite{
		ID:          id,
		WorkspaceID: workspaceID,
		Email:       NormalizeEmail(email),
		TokenHash:   tokenHash,
		ExpiresAt:   expiresAt,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
}

// Status derives the invite state at the given instant.
func (i *WorkspaceInvite) Status(now time.Time) InviteStatus {
	switch {
	case i.AcceptedAt != nil:
		return InviteStatusAccepted
	case now.After(i.ExpiresAt):
		return InviteStatusExpired
	default:
		return InviteStatusPending
	}
}
