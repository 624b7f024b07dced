package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
	"github.com/mediboard/mediboard/internal/validation"
)

type doctorHandler struct {
	recordsService *service.RecordsService
}

func NewDoctorHandler(recordsService *service.RecordsService) *doctorHandler {
	return &doctorHandler{recordsService: recordsService}
}

func (h *doctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DoctorInput
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := h.recordsService.CreateDoctor(req)
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
			writeError(w, http.StatusInternalServerError, "could not create doctor")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doctor)
}

func (h *doctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.recordsService.ListDoctors()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list doctors")
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *doctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.recordsService.Doctor(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load doctor")
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

type doctorUpdateRequest struct {
	Speciality *string `json:"speciality,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Available  *bool   `json:"available,omitempty"`
}

func (h *doctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.recordsService.Doctor(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load doctor")
		return
	}

	var req doctorUpdateRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Speciality != nil {
		doctor.Speciality = *req.Speciality
	}
	if req.Department != nil {
		doctor.Department = *req.Department
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}

	err = h.recordsService.UpdateDoctor(doctor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not update doctor")
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}
