package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

type appointmentHandler struct {
	appointmentService *service.AppointmentService
	recordsService     *service.RecordsService
}

func NewAppointmentHandler(
	appointmentService *service.AppointmentService,
	recordsService *service.RecordsService,
) *appointmentHandler {
	return &appointmentHandler{
		appointmentService: appointmentService,
		recordsService:     recordsService,
	}
}

type bookAppointmentRequest struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	StartsAt  time.Time `json:"starts_at"`
	Reason    string    `json:"reason"`
}

func (h *appointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookAppointmentRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Patients can only book for themselves.
	user := ctxkeys.User(r.Context())
	if user.Role == model.RolePatient {
		patient, perr := h.recordsService.PatientByUser(user.ID)
		if perr != nil {
			writeError(w, http.StatusInternalServerError, "could not load patient profile")
			return
		}
		req.PatientID = patient.ID
	}

	appointment, err := h.appointmentService.Book(req.PatientID, req.DoctorID, req.StartsAt, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentInPast),
			errors.Is(err, service.ErrDoctorUnavailable):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrPatientNotFound),
			errors.Is(err, repository.ErrDoctorNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not book appointment")
		}
		return
	}

	writeJSON(w, http.StatusCreated, appointment)
}

func (h *appointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	appointments, err := h.appointmentService.ListForUser(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list appointments")
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

type appointmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *appointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req appointmentStatusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	allowed, err := h.canModify(r, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load appointment")
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, service.ErrAppointmentNotAllowed.Error())
		return
	}

	appointment, err := h.appointmentService.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrAppointmentNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not update appointment")
		}
		return
	}

	writeJSON(w, http.StatusOK, appointment)
}

// canModify checks that the caller owns the appointment, or is staff.
// Patients may only cancel their own appointments.
func (h *appointmentHandler) canModify(r *http.Request, id, status string) (bool, error) {
	user := ctxkeys.User(r.Context())
	if user.Role == model.RoleAdmin || user.Role == model.RoleDoctor {
		return true, nil
	}
	if status != model.AppointmentCancelled {
		return false, nil
	}

	appointment, err := h.appointmentService.ByID(id)
	if err != nil {
		return false, err
	}
	patient, err := h.recordsService.Patient(appointment.PatientID)
	if err != nil {
		return false, err
	}
	return patient.UserID == user.ID, nil
}
