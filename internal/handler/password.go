package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mediboard/mediboard/internal/service"
	"github.com/mediboard/mediboard/internal/validation"
)

type passwordHandler struct {
	resetService *service.ResetService
}

func NewPasswordHandler(resetService *service.ResetService) *passwordHandler {
	return &passwordHandler{resetService: resetService}
}

type forgotRequest struct {
	Email string `json:"email"`
}

// Forgot requests a reset link. The response is identical whether or not
// the email has an account, so the endpoint cannot be used to enumerate
// registered addresses. Only a delivery or store failure changes the
// outcome (500).
func (h *passwordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	err := decodeJSON(r, &req)
	if err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	resetURL, err := h.resetService.Issue(req.Email)
	if err != nil {
		slog.Error("password reset request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not process reset request")
		return
	}

	body := map[string]string{
		"message": "If the email exists, a reset link has been sent.",
	}
	if resetURL != "" {
		// Development convenience only; the service returns an empty URL in
		// production deployments.
		body["reset_url"] = resetURL
	}
	writeJSON(w, http.StatusOK, body)
}

// Validate reports whether a token would be accepted, without consuming it.
func (h *passwordHandler) Validate(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	result, err := h.resetService.Validate(token)
	if err != nil {
		slog.Error("token validation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not validate token")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Reset consumes a token and sets the new password.
func (h *passwordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	err := decodeJSON(r, &req)
	if err != nil || strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "token and new_password are required")
		return
	}

	err = h.resetService.Consume(req.Token, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset."})
	case errors.Is(err, validation.ErrPasswordTooShort),
		errors.Is(err, validation.ErrPasswordTooLong),
		errors.Is(err, service.ErrTestTokenConsume),
		errors.Is(err, service.ErrTokenInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResetUserMissing):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("password reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not reset password")
	}
}
