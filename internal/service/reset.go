package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrTokenInvalid is the single user-facing message for a token that is
	// missing, expired, or already consumed. The cases are deliberately not
	// distinguishable from outside.
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrResetUserMissing means the token matched but its owner was deleted
	// between issuance and consumption. Operator-actionable, so it is
	// surfaced distinctly.
	ErrResetUserMissing = errors.New("user not found")

	// ErrTestTokenConsume rejects the reserved smoke-test tokens from the
	// consume path. They validate as true so front-end flows can render the
	// reset form, but they can never change a password.
	ErrTestTokenConsume = errors.New("test tokens are for UI preview only and cannot change a password")
)

// ResetNotifier delivers the reset link out-of-band. EmailService satisfies it.
// expiresIn is the configured token TTL, so the message never promises a
// window the store will not honor.
type ResetNotifier interface {
	SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error
}

// ResetService owns the password-reset token lifecycle: issue, validate,
// consume. Tokens are random 32-byte hex strings with a fixed TTL; at most
// one live token exists per user.
type ResetService struct {
	users          repository.UserRepository
	tokens         repository.TokenRepository
	notifier       ResetNotifier
	appURL         string
	tokenTTL       time.Duration
	exposeResetURL bool
}

func NewResetService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	notifier ResetNotifier,
	appURL string,
	tokenTTL time.Duration,
	exposeResetURL bool,
) *ResetService {
	return &ResetService{
		users:          users,
		tokens:         tokens,
		notifier:       notifier,
		appURL:         appURL,
		tokenTTL:       tokenTTL,
		exposeResetURL: exposeResetURL,
	}
}

// IsTestToken reports whether token is one of the reserved UI smoke-test
// values. These never touch the store.
func IsTestToken(token string) bool {
	return token == "test" || token == "test123" || strings.HasPrefix(token, "test_")
}

// Issue creates a reset token for the account registered under email and
// sends the reset link. An unknown email returns success with no side
// effects so callers cannot probe which addresses have accounts; a delivery
// failure, by contrast, is a real error.
//
// The returned URL is non-empty only when the service is configured to
// expose it (development deployments, where the email layer logs instead of
// sending).
func (s *ResetService) Issue(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email", "email", email)
			return "", nil
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	raw := make([]byte, 32)
	_, err = rand.Read(raw)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	// Delete-before-insert: a concurrent reader must never see two live
	// tokens for the same account.
	err = s.tokens.DeleteByUser(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	now := time.Now()
	record := &model.ResetToken{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	err = s.tokens.Create(record)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)

	// The row is persisted before delivery is attempted, so a failed send
	// never leaves the user without a recorded token; the link can still be
	// handed over through another channel or a retried request.
	err = s.notifier.SendPasswordResetEmail(user.Email, user.Name, resetURL, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	slog.Info("password reset link sent", "user_id", user.ID, "expires_at", record.ExpiresAt)

	if !s.exposeResetURL {
		return "", nil
	}
	return resetURL, nil
}

// Validation is the read-only answer to "is this token still good".
type Validation struct {
	Valid            bool   `json:"valid"`
	MinutesRemaining int    `json:"minutes_remaining,omitempty"`
	Message          string `json:"message"`
}

// Validate checks a token without mutating it: no deletion, no TTL
// extension. Reserved test tokens short-circuit to valid before any store
// access.
func (s *ResetService) Validate(token string) (*Validation, error) {
	if IsTestToken(token) {
		return &Validation{Valid: true, Message: "token is valid"}, nil
	}

	record, err := s.tokens.ValidByToken(token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return &Validation{Valid: false, Message: ErrTokenInvalid.Error()}, nil
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	minutes := int(math.Ceil(record.Remaining(time.Now()).Minutes()))
	return &Validation{Valid: true, MinutesRemaining: minutes, Message: "token is valid"}, nil
}

// Consume redeems a token for a password change. The password policy runs
// before any store access, so a rejected password leaves the token live.
// After the password write succeeds the token row is deleted; a store error
// on that delete is logged and swallowed because the user's password really
// did change.
func (s *ResetService) Consume(token, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	if IsTestToken(token) {
		return ErrTestTokenConsume
	}

	record, err := s.tokens.ValidByToken(token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	user, err := s.users.ByID(record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Warn("reset token matched but user is gone", "user_id", record.UserID)
			return ErrResetUserMissing
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.UpdatePassword(user.ID, string(hash))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	deleted, err := s.tokens.DeleteByToken(record.Token)
	if err != nil {
		slog.Error("failed to delete consumed reset token", "error", err, "user_id", user.ID)
		return nil
	}
	if !deleted {
		// A concurrent request claimed the token between our lookup and
		// delete; that request is the one redemption this token allows.
		slog.Warn("reset token already consumed by concurrent request", "user_id", user.ID)
		return ErrTokenInvalid
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return nil
}

// CleanupExpired is optional maintenance for long-running deployments;
// expiry is enforced at read time regardless.
func (s *ResetService) CleanupExpired(olderThan time.Duration) (int64, error) {
	return s.tokens.CleanupExpired(olderThan)
}
