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
	"github.com/teamflowhq/teamflow/pkg/jwtx"
	"github.com/teamflowhq/teamflow/pkg/slogx"
)

// DefaultVerificationTTL is how long an email verification token stays
// redeemable after registration.
const DefaultVerificationTTL = 24 * time.Hour

type AuthService struct {
	Store           store.Store
	Signer          jwtx.Signer
	Notifier        Notifier
	Issuer          string
	AccessTTL       time.Duration
	VerificationTTL time.Duration
}

func (s *AuthService) verificationTTL() time.Duration {
	if s.VerificationTTL > 0 {
		return s.VerificationTTL
	}
	return DefaultVerificationTTL
}

// Register creates a PENDING account and hands the raw verification token to
// the notifier. Only the token fingerprint is persisted.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	username = domain.NormalizeUsername(username)
	email = domain.NormalizeEmail(email)

	switch {
	case username == "":
		return domain.User{}, domain.BadRequest("Username must not be blank.")
	case email == "":
		return domain.User{}, domain.BadRequest("Email must not be blank.")
	case password == "":
		return domain.User{}, domain.BadRequest("Password must not be blank.")
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate verification token", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now()
	user := domain.NewUser(
		idx.New().String(),
		username,
		email,
		passwordHash,
		cryptox.FingerprintToken(token),
		now.Add(s.verificationTTL()),
		now,
	)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return domain.Conflict("Email is already taken.")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return domain.Conflict("Username is already taken.")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			// The unique columns backstop the checks above under concurrency.
			if errors.Is(err, store.ErrAlreadyExists) {
				return registerConflict(ctx, tx, email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Notifier.SendVerificationEmail(ctx, email, token); err != nil {
		// The account exists either way; verification can be re-sent.
		log.Error("failed to send verification email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// registerConflict re-probes which unique column a racing registration hit,
// so the conflict names the field that actually collided.
func registerConflict(ctx context.Context, tx store.Tx, email string) error {
	if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Conflict("Email is already taken.")
	}
	return domain.Conflict("Username is already taken.")
}

// VerifyEmail consumes a verification token: the user flips to ACTIVE and
// the token fields are cleared, so a second redemption finds nothing.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.BadRequest("Verification token must not be blank.")
	}
	fingerprint := cryptox.FingerprintToken(token)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByVerificationTokenHash(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("Verification token is invalid.")
			}
			return err
		}

		if user.Status != domain.UserStatusPending {
			return domain.Conflict("User is not in PENDING status.")
		}
		if user.EmailVerificationTokenExpiresAt == nil {
			return domain.BadRequest("Verification token is invalid.")
		}
		if time.Now().After(*user.EmailVerificationTokenExpiresAt) {
			return domain.BadRequest("Verification token has expired.")
		}

		if err := tx.Users().MarkEmailVerified(ctx, user.ID, time.Now()); err != nil {
			return err
		}

		log.Info("email verified", slog.String("user_id", user.ID))
		return nil
	})
}

// Login checks credentials and issues a bearer token. Unknown email and wrong
// password produce byte-identical errors so the response never reveals which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, domain.BadRequest("Invalid credentials.")
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return "", domain.User{}, err
	}

	// Status gates the account before credentials are even considered: a
	// PENDING or DISABLED user gets the state error regardless of password.
	switch user.Status {
	case domain.UserStatusPending:
		return "", domain.User{}, domain.Conflict("Email is not verified.")
	case domain.UserStatusDisabled:
		return "", domain.User{}, domain.Conflict("User is disabled.")
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login attempt with wrong password", slog.String("user_id", user.ID))
			return "", domain.User{}, domain.BadRequest("Invalid credentials.")
		}
		return "", domain.User{}, err
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Email, string(user.Role), s.Issuer, s.AccessTTL, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return token, user, nil
}

// GetUserByID fetches a user by id (the /me endpoint).
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFound("User not found.")
		}
		return domain.User{}, err
	}
	return user, nil
}
