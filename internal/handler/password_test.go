package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

// Minimal in-memory stores backing a real ResetService; the handler tests
// exercise the full decode -> service -> status-code path.

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) Create(user *model.User) error { return nil }

func (r *stubUserRepo) ByID(id string) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) ByEmail(email string) (*model.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) Update(user *model.User) error                { return nil }
func (r *stubUserRepo) UpdatePassword(id, passwordHash string) error { return nil }
func (r *stubUserRepo) Delete(id string) error                       { return nil }
func (r *stubUserRepo) ListByRole(role string) ([]model.User, error) {
	return nil, nil
}

type stubTokenRepo struct {
	rows map[string]*model.ResetToken
}

func (r *stubTokenRepo) Create(token *model.ResetToken) error {
	r.rows[token.Token] = token
	return nil
}

func (r *stubTokenRepo) ValidByToken(token string, now time.Time) (*model.ResetToken, error) {
	t, ok := r.rows[token]
	if !ok || !t.ExpiresAt.After(now) {
		return nil, repository.ErrTokenNotFound
	}
	return t, nil
}

func (r *stubTokenRepo) DeleteByToken(token string) (bool, error) {
	if _, ok := r.rows[token]; !ok {
		return false, nil
	}
	delete(r.rows, token)
	return true, nil
}

func (r *stubTokenRepo) DeleteByUser(userID string) error { return nil }

func (r *stubTokenRepo) CleanupExpired(olderThan time.Duration) (int64, error) {
	return 0, nil
}

type stubNotifier struct{}

func (n *stubNotifier) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	return nil
}

func newPasswordFixture(t *testing.T) (*passwordHandler, *stubTokenRepo, *model.User) {
	t.Helper()

	user := &model.User{
		ID:    "user-1",
		Name:  "Jordan Smith",
		Email: "jordan@example.com",
		Role:  model.RolePatient,
	}
	tokens := &stubTokenRepo{rows: map[string]*model.ResetToken{}}
	svc := service.NewResetService(&stubUserRepo{user: user}, tokens, &stubNotifier{},
		"https://mediboard.example.com", time.Hour, true)
	return NewPasswordHandler(svc), tokens, user
}

func seedToken(tokens *stubTokenRepo, user *model.User, raw string) {
	tokens.rows[raw] = &model.ResetToken{
		ID:        "token-1",
		UserID:    user.ID,
		Email:     user.Email,
		Token:     raw,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestForgotKnownAndUnknownEmailLookIdentical(t *testing.T) {
	h, _, _ := newPasswordFixture(t)

	known := httptest.NewRecorder()
	h.Forgot(known, httptest.NewRequest(http.MethodPost, "/api/password/forgot",
		strings.NewReader(`{"email":"jordan@example.com"}`)))

	unknown := httptest.NewRecorder()
	h.Forgot(unknown, httptest.NewRequest(http.MethodPost, "/api/password/forgot",
		strings.NewReader(`{"email":"nobody@example.com"}`)))

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, decodeBody(t, known)["message"], decodeBody(t, unknown)["message"])
}

func TestForgotMissingEmail(t *testing.T) {
	h, _, _ := newPasswordFixture(t)

	rec := httptest.NewRecorder()
	h.Forgot(rec, httptest.NewRequest(http.MethodPost, "/api/password/forgot",
		strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestForgotMalformedBody(t *testing.T) {
	h, _, _ := newPasswordFixture(t)

	rec := httptest.NewRecorder()
	h.Forgot(rec, httptest.NewRequest(http.MethodPost, "/api/password/forgot",
		strings.NewReader(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	h, tokens, user := newPasswordFixture(t)
	seedToken(tokens, user, "sometoken")

	rec := httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest(http.MethodGet, "/api/password/validate?token=sometoken", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, float64(60), body["minutes_remaining"])

	rec = httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest(http.MethodGet, "/api/password/validate?token=unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["valid"])

	rec = httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest(http.MethodGet, "/api/password/validate?token=test123", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["valid"])

	rec = httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest(http.MethodGet, "/api/password/validate", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	h, tokens, user := newPasswordFixture(t)
	seedToken(tokens, user, "sometoken")

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
		strings.NewReader(`{"token":"sometoken","new_password":"newpass1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	// The token is single use.
	rec = httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
		strings.NewReader(`{"token":"sometoken","new_password":"newpass1"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetShortPassword(t *testing.T) {
	h, tokens, user := newPasswordFixture(t)
	seedToken(tokens, user, "sometoken")

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
		strings.NewReader(`{"token":"sometoken","new_password":"abc"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Token still valid.
	rec = httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest(http.MethodGet, "/api/password/validate?token=sometoken", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["valid"])
}

func TestResetTestTokenRejectedWithDistinctMessage(t *testing.T) {
	h, _, _ := newPasswordFixture(t)

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
		strings.NewReader(`{"token":"test123","new_password":"newpass1"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg, _ := decodeBody(t, rec)["error"].(string)
	assert.Equal(t, service.ErrTestTokenConsume.Error(), msg)
	assert.NotEqual(t, service.ErrTokenInvalid.Error(), msg)
}

func TestResetUserMissingIs404(t *testing.T) {
	h, tokens, _ := newPasswordFixture(t)
	ghost := &model.User{ID: "gone", Email: "gone@example.com"}
	seedToken(tokens, ghost, "orphantoken")

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
		strings.NewReader(`{"token":"orphantoken","new_password":"newpass1"}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetMissingFields(t *testing.T) {
	h, _, _ := newPasswordFixture(t)

	for _, body := range []string{`{}`, `{"token":"x"}`, `{"new_password":"newpass1"}`, `{broken`} {
		rec := httptest.NewRecorder()
		h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/password/reset",
			strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
