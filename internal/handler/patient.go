package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
	"github.com/mediboard/mediboard/internal/validation"
)

type patientHandler struct {
	recordsService *service.RecordsService
}

func NewPatientHandler(recordsService *service.RecordsService) *patientHandler {
	return &patientHandler{recordsService: recordsService}
}

func (h *patientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.PatientInput
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

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
			writeError(w, http.StatusInternalServerError, "could not create patient")
		}
		return
	}

	writeJSON(w, http.StatusCreated, patient)
}

func (h *patientHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var (
		patients []model.Patient
		err      error
	)
	if user.Role == model.RoleDoctor {
		doctor, derr := h.recordsService.DoctorByUser(user.ID)
		if derr != nil {
			writeError(w, http.StatusInternalServerError, "could not load doctor profile")
			return
		}
		patients, err = h.recordsService.ListPatientsByDoctor(doctor.ID)
	} else {
		patients, err = h.recordsService.ListPatients()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list patients")
		return
	}

	writeJSON(w, http.StatusOK, patients)
}

func (h *patientHandler) Get(w http.ResponseWriter, r *http.Request) {
	patient, err := h.recordsService.Patient(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load patient")
		return
	}

	user := ctxkeys.User(r.Context())
	if !h.recordsService.CanAccessPatient(user, patient) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	writeJSON(w, http.StatusOK, patient)
}

type patientUpdateRequest struct {
	DoctorID   *string `json:"doctor_id,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	BloodGroup *string `json:"blood_group,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

func (h *patientHandler) Update(w http.ResponseWriter, r *http.Request) {
	patient, err := h.recordsService.Patient(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load patient")
		return
	}

	user := ctxkeys.User(r.Context())
	if !h.recordsService.CanAccessPatient(user, patient) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	var req patientUpdateRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Reassigning a patient to another doctor is an admin action.
	if req.DoctorID != nil && user.Role == model.RoleAdmin {
		patient.DoctorID = req.DoctorID
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}

	err = h.recordsService.UpdatePatient(patient)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not update patient")
		return
	}

	writeJSON(w, http.StatusOK, patient)
}
