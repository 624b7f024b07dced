package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTokenExpiry(t *testing.T) {
	now := time.Now()
	token := &ResetToken{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, token.IsExpired(now))
	assert.False(t, token.IsExpired(now.Add(time.Hour-time.Second)))
	assert.True(t, token.IsExpired(now.Add(time.Hour+time.Second)))

	assert.Equal(t, time.Hour, token.Remaining(now))
	assert.Equal(t, time.Duration(0), token.Remaining(now.Add(2*time.Hour)))
}

func TestAppointmentTransitions(t *testing.T) {
	scheduled := &Appointment{Status: AppointmentScheduled}
	assert.True(t, scheduled.CanTransition(AppointmentCompleted))
	assert.True(t, scheduled.CanTransition(AppointmentCancelled))
	assert.False(t, scheduled.CanTransition("rescheduled"))
	assert.False(t, scheduled.CanTransition(AppointmentScheduled))

	completed := &Appointment{Status: AppointmentCompleted}
	assert.False(t, completed.CanTransition(AppointmentCancelled))

	cancelled := &Appointment{Status: AppointmentCancelled}
	assert.False(t, cancelled.CanTransition(AppointmentCompleted))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleDoctor))
	assert.True(t, ValidRole(RolePatient))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
