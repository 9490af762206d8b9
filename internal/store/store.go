package store

import (
	"context"
	"errors"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep the surface tidy; the explicit Tx
// type stops callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Workspaces() Workspaces
	Members() Members
	Invites() Invites
	Projects() Projects

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rollback if fn errors, commit
	// otherwise. Every check-then-act sequence in the services (owner counts,
	// active-invite existence, name uniqueness) runs through here so the check
	// and the act are a single logical unit.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalized email (login, duplicate checks).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername looks up by normalized username (duplicate checks).
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByVerificationTokenHash finds the user holding an unconsumed
	// verification token with this fingerprint.
	GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Duplicate email or username surfaces as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// MarkEmailVerified flips the user to ACTIVE, records the verification
	// time, and clears the token fields in one statement (single-use).
	MarkEmailVerified(ctx context.Context, userID string, verifiedAt time.Time) error

	// ClearExpiredVerificationTokens removes token hashes whose expiry has
	// passed (housekeeping; the users themselves stay PENDING).
	ClearExpiredVerificationTokens(ctx context.Context, now time.Time) error
}

type Workspaces interface {
	// CreateWorkspace inserts a workspace. Duplicate name is ErrAlreadyExists.
	CreateWorkspace(ctx context.Context, w domain.Workspace) error

	// GetWorkspaceForMember returns the workspace only if userID is a member,
	// ErrNotFound otherwise. Non-members never learn the workspace exists.
	GetWorkspaceForMember(ctx context.Context, id, userID string) (domain.Workspace, error)

	// ListWorkspacesForMember returns the caller's workspaces in the given
	// status, newest first.
	ListWorkspacesForMember(ctx context.Context, userID string, status domain.WorkspaceStatus) ([]domain.Workspace, error)

	// NameTakenByOther reports whether a different workspace already uses name.
	NameTakenByOther(ctx context.Context, name, excludeID string) (bool, error)

	// UpdateWorkspaceName renames and bumps updated_at.
	UpdateWorkspaceName(ctx context.Context, id, name string, updatedAt time.Time) error

	// UpdateWorkspaceStatus closes or restores and bumps updated_at.
	UpdateWorkspaceStatus(ctx context.Context, id string, status domain.WorkspaceStatus, updatedAt time.Time) error
}

type Members interface {
	// AddMember inserts a membership row. An existing (workspace, user) pair
	// surfaces as ErrAlreadyExists.
	AddMember(ctx context.Context, m domain.WorkspaceMember) error

	// GetRole returns the member's role, ErrNotFound when not a member.
	GetRole(ctx context.Context, workspaceID, userID string) (domain.MemberRole, error)

	// CountByRole counts members of the workspace holding role.
	CountByRole(ctx context.Context, workspaceID string, role domain.MemberRole) (int, error)

	// ListMembers returns the roster ordered owners-first, then by join time.
	ListMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error)

	// RemoveMember deletes the row, ErrNotFound when absent.
	RemoveMember(ctx context.Context, workspaceID, userID string) error

	// UpdateRole changes a member's role, ErrNotFound when absent.
	UpdateRole(ctx context.Context, workspaceID, userID string, role domain.MemberRole) error
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256 fingerprint
	// of the opaque token). A second unaccepted invite for the same
	// (workspace, email) pair surfaces as ErrAlreadyExists.
	CreateInvite(ctx context.Context, inv domain.WorkspaceInvite) error

	// GetInviteByTokenHash returns the invite by fingerprint regardless of
	// state; the service decides between accepted/expired/pending.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.WorkspaceInvite, error)

	// ActiveInviteExists reports an unaccepted, unexpired invite for the pair.
	ActiveInviteExists(ctx context.Context, workspaceID, email string, now time.Time) (bool, error)

	// MarkInviteAccepted sets accepted_at (transaction-friendly).
	MarkInviteAccepted(ctx context.Context, inviteID string, acceptedAt time.Time) error

	// DeleteExpiredInvites removes expired unaccepted invites for a specific
	// (workspace, email) pair so a fresh invite can be issued.
	DeleteExpiredInvites(ctx context.Context, workspaceID, email string, now time.Time) error

	// DeleteAllExpiredInvites is periodic housekeeping across all workspaces.
	DeleteAllExpiredInvites(ctx context.Context, now time.Time) error
}

type Projects interface {
	// CreateProject inserts a project row.
	CreateProject(ctx context.Context, p domain.Project) error

	// GetProjectByID fetches a project regardless of workspace; callers
	// compare WorkspaceID themselves to enforce parent scoping.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsByWorkspace returns a workspace's projects, newest first.
	ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error)

	// UpdateProjectName renames and bumps updated_at.
	UpdateProjectName(ctx context.Context, id, name string, updatedAt time.Time) error

	// DeleteProject removes the row, ErrNotFound when absent.
	DeleteProject(ctx context.Context, id string) error
}
