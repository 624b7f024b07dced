package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/service"
	"github.com/mediboard/mediboard/internal/validation"
)

type authHandler struct {
	authService    *service.AuthService
	recordsService *service.RecordsService
}

func NewAuthHandler(authService *service.AuthService, recordsService *service.RecordsService) *authHandler {
	return &authHandler{authService: authService, recordsService: recordsService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Signup is patient self-registration; staff accounts are created by
// admins through the doctor endpoints.
func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.PatientInput
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Self-registered patients start unassigned
	req.DoctorID = nil

	patient, err := h.recordsService.CreatePatient(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, validation.ErrPasswordTooShort),
			errors.Is(err, validation.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, patient)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *authHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	err := decodeJSON(r, &req)
	if err != nil || req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	err = h.authService.ChangePassword(user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongOldPassword),
			errors.Is(err, validation.ErrPasswordTooShort),
			errors.Is(err, validation.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not change password")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed."})
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}
