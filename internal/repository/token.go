package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(token *model.ResetToken) error
	ValidByToken(token string, now time.Time) (*model.ResetToken, error)
	DeleteByToken(token string) (bool, error)
	DeleteByUser(userID string) error
	CleanupExpired(olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.ResetToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reset_tokens (id, user_id, email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Email,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// ValidByToken returns the unexpired token row matching the raw token value.
// Expired rows are invisible here; they stay in the table until CleanupExpired
// removes them (lazy expiry, no background sweep required).
func (r *tokenRepository) ValidByToken(token string, now time.Time) (*model.ResetToken, error) {
	var t model.ResetToken
	query := `SELECT * FROM reset_tokens WHERE token = $1 AND expires_at > $2`

	err := r.db.Get(&t, query, token, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// DeleteByToken removes the token row and reports whether a row was removed.
// A false return with nil error means another request consumed the token
// first; only one concurrent redeemer can see true.
func (r *tokenRepository) DeleteByToken(token string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM reset_tokens WHERE token = $1`, token)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// DeleteByUser removes every token issued to the user. Issue calls this
// before inserting a replacement so a concurrent reader never sees two
// live tokens for the same account.
func (r *tokenRepository) DeleteByUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM reset_tokens WHERE user_id = $1`, userID)
	return err
}

// CleanupExpired removes rows past expiry by more than olderThan. Optional
// maintenance only; correctness never depends on it because every read
// carries the expires_at predicate.
func (r *tokenRepository) CleanupExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.db.Exec(`DELETE FROM reset_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
