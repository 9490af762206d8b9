package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserRole is the product-level role, distinct from workspace roles.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// ParseUserRole rejects anything outside the closed set, so an unknown
// string never survives past the storage boundary.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case UserRoleUser, UserRoleAdmin:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

// UserStatus is the account lifecycle state. The only transitions are
// PENDING→ACTIVE via email verification and ACTIVE↔DISABLED administratively.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserStatusPending, UserStatusActive, UserStatusDisabled:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

type User struct {
	ID           string
	Email        string // normalized: lowercase, trimmed
	Username     string // normalized: lowercase, trimmed
	PasswordHash string // argon2 encoded, never the plaintext
	Role         UserRole
	Status       UserStatus

	EmailVerifiedAt *time.Time
	// Verification token hash and expiry are set at registration and cleared
	// once the token is consumed (single use).
	EmailVerificationTokenHash      *string
	EmailVerificationTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a PENDING user with normalized identity fields and the
// verification token hash already attached. Timestamps are set here rather
// than by a persistence hook so the behaviour is testable in isolation.
func NewUser(id, username, email, passwordHash, verifyTokenHash string, verifyExpiresAt, now time.Time) User {
	return User{
		ID:                              id,
		Email:                           NormalizeEmail(email),
		Username:                        NormalizeUsername(username),
		PasswordHash:                    passwordHash,
		Role:                            UserRoleUser,
		Status:                          UserStatusPending,
		EmailVerificationTokenHash:      &verifyTokenHash,
		EmailVerificationTokenExpiresAt: &verifyExpiresAt,
		CreatedAt:                       now,
		UpdatedAt:                       now,
	}
}

// IsEmailVerified reports whether the user has completed verification.
func (u *User) IsEmailVerified() bool { return u.EmailVerifiedAt != nil }

// NormalizeEmail applies the canonical form used everywhere an email is
// compared or stored: trim then lowercase. Registration, login, and invite
// matching all go through this so case differences never cause mismatches.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername mirrors NormalizeEmail for usernames.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
