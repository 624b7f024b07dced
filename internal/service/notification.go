package service

import (
	"log/slog"

	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

// NotificationService persists per-user notifications and optionally pushes
// them by email. Notify never returns an error: a notification is a side
// channel, and a failure to record or deliver one must not fail the
// operation that triggered it.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	email         *EmailService
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	email *EmailService,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		email:         email,
	}
}

// Notify records a notification for the user and, when push is set, sends
// it by email too. Failures are logged and swallowed.
func (s *NotificationService) Notify(userID, title, body string, push bool) {
	err := s.notifications.Create(&model.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		slog.Warn("failed to record notification", "error", err, "user_id", userID)
	}

	if !push || s.email == nil {
		return
	}

	user, err := s.users.ByID(userID)
	if err != nil {
		slog.Warn("failed to resolve notification recipient", "error", err, "user_id", userID)
		return
	}

	err = s.email.SendAppointmentEmail(user.Email, user.Name, title, body)
	if err != nil {
		slog.Warn("failed to push notification email", "error", err, "user_id", userID)
	}
}

func (s *NotificationService) ListForUser(userID string) ([]model.Notification, error) {
	return s.notifications.ListByUser(userID)
}

func (s *NotificationService) MarkRead(id, userID string) error {
	return s.notifications.MarkRead(id, userID)
}

func (s *NotificationService) UnreadCount(userID string) (int, error) {
	return s.notifications.UnreadCount(userID)
}
