package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1 hour", formatExpiry(time.Hour))
	assert.Equal(t, "2 hours", formatExpiry(2*time.Hour))
	assert.Equal(t, "30 minutes", formatExpiry(30*time.Minute))
	assert.Equal(t, "90 minutes", formatExpiry(90*time.Minute))
	assert.Equal(t, "1 minute", formatExpiry(time.Minute))
	assert.Equal(t, "2 minutes", formatExpiry(61*time.Second))
}

func TestPasswordResetEmailReflectsConfiguredExpiry(t *testing.T) {
	_, body := passwordResetEmailTemplate("Jordan", "https://example.com/reset", "Mediboard", 30*time.Minute)
	assert.Contains(t, body, "expires in 30 minutes")

	_, body = passwordResetEmailTemplate("Jordan", "https://example.com/reset", "Mediboard", time.Hour)
	assert.Contains(t, body, "expires in 1 hour")

	_, fallback := passwordResetEmailTemplate("", "https://example.com/reset", "Mediboard", time.Hour)
	assert.Contains(t, fallback, "Hi there,")
}
