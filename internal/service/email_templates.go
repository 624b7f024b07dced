package service

import (
	"fmt"
	"math"
	"time"
)

// formatExpiry renders a TTL for humans: whole hours when the duration is
// an exact hour multiple, minutes (rounded up) otherwise.
func formatExpiry(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(math.Ceil(d.Minutes()))
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func passwordResetEmailTemplate(name, resetURL, appName string, expiresIn time.Duration) (string, string) {
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`Hi %s,

You requested to reset your password. Use this link to choose a new one:
%s

This link expires in %s and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, name, resetURL, formatExpiry(expiresIn), appName)

	return subject, body
}

func appointmentEmailTemplate(name, title, detail, appName string) (string, string) {
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("%s - %s", appName, title)
	body := fmt.Sprintf(`Hi %s,

%s

You can see the details in your %s dashboard.

Best,
The %s Team`, name, detail, appName, appName)

	return subject, body
}
