package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

// In-memory repository fakes shared by the service tests. Error fields
// inject store failures; counters let tests assert on store access.

type memUserRepo struct {
	users             map[string]*model.User
	updatePasswordErr error
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) ByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) Update(user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdatePassword(id, passwordHash string) error {
	if r.updatePasswordErr != nil {
		return r.updatePasswordErr
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) ListByRole(role string) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memTokenRepo struct {
	rows map[string]*model.ResetToken // keyed by raw token value

	createErr     error
	deleteErr     error
	validCalls    int
	deletePattern []bool // overrides row state per DeleteByToken call when set
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{rows: map[string]*model.ResetToken{}}
}

func (r *memTokenRepo) Create(token *model.ResetToken) error {
	if r.createErr != nil {
		return r.createErr
	}
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	r.rows[token.Token] = token
	return nil
}

func (r *memTokenRepo) ValidByToken(token string, now time.Time) (*model.ResetToken, error) {
	r.validCalls++
	t, ok := r.rows[token]
	if !ok || !t.ExpiresAt.After(now) {
		return nil, repository.ErrTokenNotFound
	}
	return t, nil
}

func (r *memTokenRepo) DeleteByToken(token string) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if len(r.deletePattern) > 0 {
		deleted := r.deletePattern[0]
		r.deletePattern = r.deletePattern[1:]
		if deleted {
			delete(r.rows, token)
		}
		return deleted, nil
	}
	if _, ok := r.rows[token]; !ok {
		return false, nil
	}
	delete(r.rows, token)
	return true, nil
}

func (r *memTokenRepo) DeleteByUser(userID string) error {
	for raw, t := range r.rows {
		if t.UserID == userID {
			delete(r.rows, raw)
		}
	}
	return nil
}

func (r *memTokenRepo) CleanupExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for raw, t := range r.rows {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.rows, raw)
			n++
		}
	}
	return n, nil
}

type fakeNotifier struct {
	calls     int
	to        string
	name      string
	url       string
	expiresIn time.Duration
	err       error
}

func (n *fakeNotifier) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	n.calls++
	n.to = to
	n.name = name
	n.url = resetURL
	n.expiresIn = expiresIn
	return n.err
}

type memNotificationRepo struct {
	rows      []*model.Notification
	createErr error
}

func (r *memNotificationRepo) Create(notification *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	r.rows = append(r.rows, notification)
	return nil
}

func (r *memNotificationRepo) ListByUser(userID string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(id, userID string) error {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *memNotificationRepo) UnreadCount(userID string) (int, error) {
	count := 0
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
