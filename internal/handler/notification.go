package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

type notificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *notificationHandler {
	return &notificationHandler{notificationService: notificationService}
}

func (h *notificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	notifications, err := h.notificationService.ListForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list notifications")
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *notificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	count, err := h.notificationService.UnreadCount(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not count notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *notificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.notificationService.MarkRead(r.PathValue("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not update notification")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
