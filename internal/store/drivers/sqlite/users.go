package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, username, password_hash, role, status,
	email_verified_at, email_verification_token_hash,
	email_verification_token_expires_at, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_verification_token_hash = ?`, hash)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.PasswordHash, string(u.Role), string(u.Status),
		mapOptionalTime(u.EmailVerifiedAt),
		mapOptionalString(u.EmailVerificationTokenHash),
		mapOptionalTime(u.EmailVerificationTokenExpiresAt),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string, verifiedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET status = ?, email_verified_at = ?,
		     email_verification_token_hash = NULL,
		     email_verification_token_expires_at = NULL,
		     updated_at = ?
		 WHERE id = ?`,
		string(domain.UserStatusActive), verifiedAt, verifiedAt, userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ClearExpiredVerificationTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_verification_token_hash = NULL,
		     email_verification_token_expires_at = NULL,
		     updated_at = ?
		 WHERE email_verification_token_expires_at IS NOT NULL
		   AND email_verification_token_expires_at < ?`,
		now, now,
	)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u            domain.User
		role, status string
		verifiedAt   sql.NullTime
		tokenHash    sql.NullString
		tokenExpiry  sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &role, &status,
		&verifiedAt, &tokenHash, &tokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if u.Role, err = domain.ParseUserRole(role); err != nil {
		return domain.User{}, err
	}
	if u.Status, err = domain.ParseUserStatus(status); err != nil {
		return domain.User{}, err
	}

	u.EmailVerifiedAt = mapNullTimePtr(verifiedAt)
	u.EmailVerificationTokenHash = mapNullStringPtr(tokenHash)
	u.EmailVerificationTokenExpiresAt = mapNullTimePtr(tokenExpiry)

	return u, nil
}
