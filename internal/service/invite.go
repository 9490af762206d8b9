package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/internal/store"
	"github.com/teamflowhq/teamflow/pkg/cryptox"
	"github.com/teamflowhq/teamflow/pkg/idx"
	"github.com/teamflowhq/teamflow/pkg/slogx"
)

// DefaultInviteTTL is how long a workspace invite stays redeemable.
const DefaultInviteTTL = 48 * time.Hour

type InviteService struct {
	Store     store.Store
	Notifier  Notifier
	InviteTTL time.Duration
}

func (s *InviteService) inviteTTL() time.Duration {
	if s.InviteTTL > 0 {
		return s.InviteTTL
	}
	return DefaultInviteTTL
}

// Invite issues a single-use invite token for an email address. Owner only.
// At most one active invite may exist per (workspace, email); expired
// unaccepted rows for the pair are purged inside the same transaction so a
// re-invite after expiry succeeds, and the partial unique index closes the
// window between the existence check and the insert.
func (s *InviteService) Invite(ctx context.Context, p domain.Principal, workspaceID, email string) (domain.WorkspaceInvite, error) {
	log := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.WorkspaceInvite{}, domain.BadRequest("Email must not be blank.")
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.WorkspaceInvite{}, err
	}

	now := time.Now()
	invite := domain.NewWorkspaceInvite(
		idx.New().String(),
		workspaceID,
		email,
		cryptox.FingerprintToken(token),
		p.UserID,
		now.Add(s.inviteTTL()),
		now,
	)

	var workspaceName string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		ws, err := tx.Workspaces().GetWorkspaceForMember(ctx, workspaceID, p.UserID)
		if err != nil {
			return err
		}
		workspaceName = ws.Name

		// An existing account with this email that is already on the roster
		// makes the invite pointless.
		if user, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			if _, err := tx.Members().GetRole(ctx, workspaceID, user.ID); err == nil {
				return domain.Conflict("User is already a member.")
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Invites().DeleteExpiredInvites(ctx, workspaceID, email, now); err != nil {
			return err
		}

		active, err := tx.Invites().ActiveInviteExists(ctx, workspaceID, email, now)
		if err != nil {
			return err
		}
		if active {
			return domain.Conflict("Active invite already exists for this email.")
		}

		if err := tx.Invites().CreateInvite(ctx, invite); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict("Active invite already exists for this email.")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.WorkspaceInvite{}, err
	}

	if err := s.Notifier.SendWorkspaceInvite(ctx, email, workspaceID, workspaceName, token, invite.ExpiresAt); err != nil {
		log.Error("failed to send invite email",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("workspace_id", workspaceID),
		slog.String("created_by", p.UserID),
	)

	return invite, nil
}

// AcceptInvite redeems an invite token for the authenticated caller. The
// membership insert and the acceptance mark share a transaction: the invite
// either produces a member and flips to ACCEPTED, or does neither.
func (s *InviteService) AcceptInvite(ctx context.Context, p domain.Principal, token string) (domain.WorkspaceMember, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.WorkspaceMember{}, domain.BadRequest("Invite token must not be blank.")
	}
	fingerprint := cryptox.FingerprintToken(token)

	var member domain.WorkspaceMember
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		invite, err := tx.Invites().GetInviteByTokenHash(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("Invite token is invalid.")
			}
			return err
		}

		now := time.Now()
		switch invite.Status(now) {
		case domain.InviteStatusAccepted:
			return domain.Conflict("Invite is already accepted.")
		case domain.InviteStatusExpired:
			return domain.BadRequest("Invite token has expired.")
		}

		if domain.NormalizeEmail(p.Email) != invite.Email {
			log.Warn("invite acceptance attempted with mismatched email",
				slog.String("invite_id", invite.ID),
				slog.String("user_id", p.UserID),
			)
			return domain.Forbidden("This invite was issued for a different email.")
		}

		member = domain.NewMember(invite.WorkspaceID, p.UserID, now)
		if err := tx.Members().AddMember(ctx, member); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict("User is already a member.")
			}
			return err
		}

		return tx.Invites().MarkInviteAccepted(ctx, invite.ID, now)
	})
	if err != nil {
		return domain.WorkspaceMember{}, err
	}

	log.Info("invite accepted",
		slog.String("workspace_id", member.WorkspaceID),
		slog.String("user_id", p.UserID),
	)

	return member, nil
}
