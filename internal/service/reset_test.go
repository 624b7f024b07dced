package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/validation"
)

func testUser(email string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.MinCost)
	return &model.User{
		ID:           uuid.New().String(),
		Name:         "Jordan Smith",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RolePatient,
	}
}

func newResetFixture(users ...*model.User) (*ResetService, *memUserRepo, *memTokenRepo, *fakeNotifier) {
	userRepo := newMemUserRepo(users...)
	tokenRepo := newMemTokenRepo()
	notifier := &fakeNotifier{}
	svc := NewResetService(userRepo, tokenRepo, notifier, "https://mediboard.example.com", time.Hour, true)
	return svc, userRepo, tokenRepo, notifier
}

func TestIssueCreatesTokenAndSendsLink(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, notifier := newResetFixture(user)

	url, err := svc.Issue("jordan@example.com")
	require.NoError(t, err)

	require.Len(t, tokenRepo.rows, 1)
	var record *model.ResetToken
	for _, row := range tokenRepo.rows {
		record = row
	}
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, user.Email, record.Email)
	assert.Len(t, record.Token, 64) // 32 random bytes, hex encoded
	assert.WithinDuration(t, time.Now().Add(time.Hour), record.ExpiresAt, 5*time.Second)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, user.Email, notifier.to)
	assert.Equal(t, user.Name, notifier.name)
	assert.Contains(t, notifier.url, "/reset-password?token="+record.Token)
	assert.Equal(t, notifier.url, url)
	assert.Equal(t, time.Hour, notifier.expiresIn)
}

func TestIssueNormalizesEmail(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	_, err := svc.Issue("  Jordan@Example.COM ")
	require.NoError(t, err)
	assert.Len(t, tokenRepo.rows, 1)
}

func TestIssueUnknownEmailLooksLikeSuccess(t *testing.T) {
	svc, _, tokenRepo, notifier := newResetFixture(testUser("jordan@example.com"))

	url, err := svc.Issue("nobody@example.com")

	// Identical to the known-email response shape: no error, and no way to
	// tell from outside that nothing happened.
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Empty(t, tokenRepo.rows)
	assert.Zero(t, notifier.calls)
}

func TestIssueReplacesPreviousToken(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	first, err := svc.Issue(user.Email)
	require.NoError(t, err)
	second, err := svc.Issue(user.Email)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Only the second token survives.
	require.Len(t, tokenRepo.rows, 1)

	firstToken := first[len(first)-64:]
	result, err := svc.Validate(firstToken)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	secondToken := second[len(second)-64:]
	result, err = svc.Validate(secondToken)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestIssueNotifierFailureIsAnError(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, notifier := newResetFixture(user)
	notifier.err = errors.New("smtp down")

	_, err := svc.Issue(user.Email)
	require.Error(t, err)

	// The token row is written before delivery, so it survives the failure.
	assert.Len(t, tokenRepo.rows, 1)
}

func TestValidateTestTokensSkipStore(t *testing.T) {
	svc, _, tokenRepo, _ := newResetFixture()

	for _, token := range []string{"test", "test123", "test_preview", "test_"} {
		result, err := svc.Validate(token)
		require.NoError(t, err, token)
		assert.True(t, result.Valid, token)
		assert.Zero(t, result.MinutesRemaining, token)
	}
	assert.Zero(t, tokenRepo.validCalls)

	// "testing" is not reserved; it falls through to a store lookup.
	result, err := svc.Validate("testing")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, 1, tokenRepo.validCalls)
}

func TestValidateUnknownToken(t *testing.T) {
	svc, _, _, _ := newResetFixture()

	result, err := svc.Validate("deadbeef")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrTokenInvalid.Error(), result.Message)
}

func TestValidateExpiredToken(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "expiredtoken",
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	result, err := svc.Validate("expiredtoken")
	require.NoError(t, err)
	assert.False(t, result.Valid)

	// Expired rows stay in the table; only the read predicate hides them.
	assert.Len(t, tokenRepo.rows, 1)
}

func TestValidateExpiryBoundary(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "almostexpired",
		ExpiresAt: time.Now().Add(time.Second),
	}))
	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "justexpired",
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	result, err := svc.Validate("almostexpired")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = svc.Validate("justexpired")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateReportsMinutesRemaining(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "freshtoken",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	result, err := svc.Validate("freshtoken")
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, 60, result.MinutesRemaining)
}

func TestConsumeHappyPath(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, userRepo, tokenRepo, _ := newResetFixture(user)

	url, err := svc.Issue(user.Email)
	require.NoError(t, err)
	token := url[len(url)-64:]

	err = svc.Consume(token, "newpass1")
	require.NoError(t, err)

	stored, err := userRepo.ByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass1")))

	// Single use: the row is gone.
	assert.Empty(t, tokenRepo.rows)
	err = svc.Consume(token, "anotherpass")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeShortPasswordLeavesTokenLive(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, userRepo, tokenRepo, _ := newResetFixture(user)

	url, err := svc.Issue(user.Email)
	require.NoError(t, err)
	token := url[len(url)-64:]

	err = svc.Consume(token, "abc")
	assert.ErrorIs(t, err, validation.ErrPasswordTooShort)

	// Policy runs before any store access: the token survives and the
	// password is untouched.
	assert.Zero(t, tokenRepo.validCalls)
	assert.Len(t, tokenRepo.rows, 1)
	stored, _ := userRepo.ByID(user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("oldpassword")))

	err = svc.Consume(token, "newpass1")
	require.NoError(t, err)
}

func TestConsumeRejectsTestTokens(t *testing.T) {
	svc, _, tokenRepo, _ := newResetFixture()

	for _, token := range []string{"test", "test123", "test_preview"} {
		err := svc.Consume(token, "newpass1")
		assert.ErrorIs(t, err, ErrTestTokenConsume, token)
	}
	assert.Zero(t, tokenRepo.validCalls)
}

func TestConsumeExpiredToken(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "expiredtoken",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err := svc.Consume("expiredtoken", "newpass1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeUserDeletedAfterIssue(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, userRepo, _, _ := newResetFixture(user)

	url, err := svc.Issue(user.Email)
	require.NoError(t, err)
	token := url[len(url)-64:]

	require.NoError(t, userRepo.Delete(user.ID))

	err = svc.Consume(token, "newpass1")
	assert.ErrorIs(t, err, ErrResetUserMissing)
}

func TestConsumeSwallowsDeleteFailure(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, userRepo, tokenRepo, _ := newResetFixture(user)

	url, err := svc.Issue(user.Email)
	require.NoError(t, err)
	token := url[len(url)-64:]

	tokenRepo.deleteErr = errors.New("connection reset")

	// The password write landed, so the caller sees success even though
	// the token row could not be removed.
	err = svc.Consume(token, "newpass1")
	require.NoError(t, err)

	stored, _ := userRepo.ByID(user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass1")))
}

func TestConsumeLosesRaceToConcurrentRedeemer(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	url, err := svc.Issue(user.Email)
	require.NoError(t, err)
	token := url[len(url)-64:]

	// Simulate another request deleting the row between our lookup and
	// delete.
	tokenRepo.deletePattern = []bool{false}

	err = svc.Consume(token, "newpass1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCleanupExpiredRemovesOldRows(t *testing.T) {
	user := testUser("jordan@example.com")
	svc, _, tokenRepo, _ := newResetFixture(user)

	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "longdead",
		ExpiresAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, tokenRepo.Create(&model.ResetToken{
		UserID:    user.ID,
		Token:     "freshtoken",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	removed, err := svc.CleanupExpired(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, tokenRepo.rows, 1)
}

func TestFullResetFlow(t *testing.T) {
	user := testUser("alice@example.com")
	svc, userRepo, _, notifier := newResetFixture(user)

	url, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	require.Contains(t, notifier.url, "token=")
	token := url[len(url)-64:]
	assert.Contains(t, notifier.url, token)

	result, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 60, result.MinutesRemaining)

	require.NoError(t, svc.Consume(token, "newpass1"))

	stored, err := userRepo.ByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass1")))

	result, err = svc.Validate(token)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestIsTestToken(t *testing.T) {
	assert.True(t, IsTestToken("test"))
	assert.True(t, IsTestToken("test123"))
	assert.True(t, IsTestToken("test_anything"))
	assert.False(t, IsTestToken("testing"))
	assert.False(t, IsTestToken("TEST"))
	assert.False(t, IsTestToken(""))
}
