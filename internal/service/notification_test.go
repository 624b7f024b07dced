package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyRecordsForUser(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, newMemUserRepo(), nil)

	svc.Notify("user-1", "Appointment booked", "See you Tuesday.", false)

	list, err := svc.ListForUser("user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Appointment booked", list[0].Title)
	assert.False(t, list[0].Read)

	count, err := svc.UnreadCount("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotifySwallowsStoreFailure(t *testing.T) {
	repo := &memNotificationRepo{createErr: errors.New("disk full")}
	svc := NewNotificationService(repo, newMemUserRepo(), nil)

	// Must not panic or surface the error; notification delivery never
	// fails the operation that triggered it.
	svc.Notify("user-1", "Appointment booked", "See you Tuesday.", true)

	count, err := svc.UnreadCount("user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, newMemUserRepo(), nil)

	svc.Notify("user-1", "Lab report ready", "Your CBC report is available.", false)
	list, err := svc.ListForUser("user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Another user cannot mark it.
	err = svc.MarkRead(list[0].ID, "user-2")
	assert.Error(t, err)

	err = svc.MarkRead(list[0].ID, "user-1")
	require.NoError(t, err)

	count, err := svc.UnreadCount("user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
