package service

import (
	"context"
	"testing"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/internal/store"
	"github.com/teamflowhq/teamflow/pkg/cryptox"
	"github.com/teamflowhq/teamflow/pkg/idx"
	"github.com/teamflowhq/teamflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *captureNotifier) {
	t.Helper()

	notifier := newCaptureNotifier()
	svc := &AuthService{
		Store:     newTestStore(t),
		Signer:    newTestSigner(t),
		Notifier:  notifier,
		Issuer:    "test-issuer",
		AccessTTL: time.Minute,
	}
	return svc, notifier
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending user and sends token", func(t *testing.T) {
		svc, notifier := newAuthService(t)

		user, err := svc.Register(ctx, "Alice", "  Alice@Example.COM ", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, domain.UserStatusPending, user.Status)
		require.Equal(t, domain.UserRoleUser, user.Role)
		require.Nil(t, user.EmailVerifiedAt)

		token := notifier.verificationToken("alice@example.com")
		require.NotEmpty(t, token)

		// Only the fingerprint is persisted.
		stored, err := svc.Store.Users().GetUserByVerificationTokenHash(ctx, cryptox.FingerprintToken(token))
		require.NoError(t, err)
		require.Equal(t, user.ID, stored.ID)
		require.NotEqual(t, token, *stored.EmailVerificationTokenHash)
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "other", "ALICE@example.com", "s3cret-pass")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Email is already taken.")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Alice", "alice2@example.com", "s3cret-pass")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Username is already taken.")
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "", "a@example.com", "pw")
		require.ErrorIs(t, err, domain.ErrBadRequest)

		_, err = svc.Register(ctx, "a", "   ", "pw")
		require.ErrorIs(t, err, domain.ErrBadRequest)

		_, err = svc.Register(ctx, "a", "a@example.com", "")
		require.ErrorIs(t, err, domain.ErrBadRequest)
	})
}

func TestRegisterConflictNamesCollidedField(t *testing.T) {
	// When the unique index catches a racing registration, the conflict must
	// name the field that collided rather than defaulting to email.
	ctx := context.Background()
	st := newTestStore(t)

	createActiveUser(t, st, "alice", "alice@example.com", "pw-alice")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		err := registerConflict(ctx, tx, "alice@example.com")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Email is already taken.")

		// Same username, different email: the probe misses on email, so the
		// collision is attributed to the username.
		err = registerConflict(ctx, tx, "other@example.com")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Username is already taken.")
		return nil
	})
	require.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("token is single use", func(t *testing.T) {
		svc, notifier := newAuthService(t)

		user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		token := notifier.verificationToken("alice@example.com")
		require.NoError(t, svc.VerifyEmail(ctx, token))

		verified, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.UserStatusActive, verified.Status)
		require.NotNil(t, verified.EmailVerifiedAt)
		require.Nil(t, verified.EmailVerificationTokenHash)
		require.Nil(t, verified.EmailVerificationTokenExpiresAt)

		// Second redemption finds nothing.
		err = svc.VerifyEmail(ctx, token)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.EqualError(t, err, "Verification token is invalid.")
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _ := newAuthService(t)

		err := svc.VerifyEmail(ctx, cryptox.MustGenerateToken(cryptox.TokenSize256))
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _ := newAuthService(t)

		// Insert a pending user whose token expiry has already passed.
		hash, err := cryptox.HashPassword("s3cret-pass")
		require.NoError(t, err)
		token := cryptox.MustGenerateToken(cryptox.TokenSize256)
		user := domain.NewUser(
			idx.New().String(), "bob", "bob@example.com", hash,
			cryptox.FingerprintToken(token),
			time.Now().Add(-time.Minute), time.Now().Add(-25*time.Hour),
		)
		require.NoError(t, svc.Store.Users().CreateUser(ctx, user))

		err = svc.VerifyEmail(ctx, token)
		require.ErrorIs(t, err, domain.ErrBadRequest)
		require.EqualError(t, err, "Verification token has expired.")
	})

	t.Run("blank token", func(t *testing.T) {
		svc, _ := newAuthService(t)
		require.ErrorIs(t, svc.VerifyEmail(ctx, ""), domain.ErrBadRequest)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues verifiable access token", func(t *testing.T) {
		svc, notifier := newAuthService(t)

		user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.NoError(t, svc.VerifyEmail(ctx, notifier.verificationToken("alice@example.com")))

		token, loggedIn, err := svc.Login(ctx, "Alice@Example.com", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, user.ID, loggedIn.ID)

		verifier := jwtx.NewVerifierHS256([]byte("0123456789abcdef0123456789abcdef"), "test-issuer")
		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, "alice@example.com", claims.Email)
		require.Equal(t, "USER", claims.Role)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svc, notifier := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.NoError(t, svc.VerifyEmail(ctx, notifier.verificationToken("alice@example.com")))

		_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		_, _, errWrongPw := svc.Login(ctx, "alice@example.com", "wrong-pass")

		require.ErrorIs(t, errUnknown, domain.ErrBadRequest)
		require.ErrorIs(t, errWrongPw, domain.ErrBadRequest)
		require.Equal(t, errUnknown.Error(), errWrongPw.Error())
		require.EqualError(t, errUnknown, "Invalid credentials.")
	})

	t.Run("pending user cannot log in", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Email is not verified.")
	})

	t.Run("disabled user cannot log in", func(t *testing.T) {
		svc, _ := newAuthService(t)

		createUserWithStatus(t, svc.Store, "alice", "alice@example.com", "s3cret-pass", domain.UserStatusDisabled)

		_, _, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "User is disabled.")
	})

	t.Run("account status wins over wrong password", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		// The status gate fires before credentials are checked, so even a
		// bad password surfaces the unverified state.
		_, _, err = svc.Login(ctx, "alice@example.com", "totally-wrong")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "Email is not verified.")

		createUserWithStatus(t, svc.Store, "bob", "bob@example.com", "pw-bob", domain.UserStatusDisabled)

		_, _, err = svc.Login(ctx, "bob@example.com", "totally-wrong")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.EqualError(t, err, "User is disabled.")
	})
}
