package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(notification *model.Notification) error
	ListByUser(userID string) ([]model.Notification, error)
	MarkRead(id, userID string) error
	UnreadCount(userID string) (int, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	query := `INSERT INTO notifications (id, user_id, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		notification.ID, notification.UserID, notification.Title,
		notification.Body, notification.Read, notification.CreatedAt,
	)
	return err
}

func (r *notificationRepository) ListByUser(userID string) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := r.db.Select(&notifications, `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return notifications, err
}

// MarkRead scopes the update to the owner so one user cannot ack another's
// notifications.
func (r *notificationRepository) MarkRead(id, userID string) error {
	result, err := r.db.Exec(`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrNotificationNotFound)
}

func (r *notificationRepository) UnreadCount(userID string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}
