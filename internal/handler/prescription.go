package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

type prescriptionHandler struct {
	billingService *service.BillingService
	recordsService *service.RecordsService
}

func NewPrescriptionHandler(
	billingService *service.BillingService,
	recordsService *service.RecordsService,
) *prescriptionHandler {
	return &prescriptionHandler{
		billingService: billingService,
		recordsService: recordsService,
	}
}

type createPrescriptionRequest struct {
	PatientID   string `json:"patient_id"`
	Medications string `json:"medications"`
	Notes       string `json:"notes"`
}

func (h *prescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPrescriptionRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := ctxkeys.User(r.Context())
	doctor, err := h.recordsService.DoctorByUser(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load doctor profile")
		return
	}

	prescription, err := h.billingService.CreatePrescription(req.PatientID, doctor.ID, req.Medications, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not create prescription")
		return
	}

	writeJSON(w, http.StatusCreated, prescription)
}

func (h *prescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var (
		prescriptions []model.Prescription
		err           error
	)
	switch user.Role {
	case model.RoleDoctor:
		doctor, derr := h.recordsService.DoctorByUser(user.ID)
		if derr != nil {
			writeError(w, http.StatusInternalServerError, "could not load doctor profile")
			return
		}
		prescriptions, err = h.billingService.ListPrescriptionsByDoctor(doctor.ID)
	case model.RolePatient:
		patient, perr := h.recordsService.PatientByUser(user.ID)
		if perr != nil {
			writeError(w, http.StatusInternalServerError, "could not load patient profile")
			return
		}
		prescriptions, err = h.billingService.ListPrescriptionsByPatient(patient.ID)
	default:
		patientID := r.URL.Query().Get("patient_id")
		if patientID == "" {
			writeError(w, http.StatusBadRequest, "patient_id is required")
			return
		}
		prescriptions, err = h.billingService.ListPrescriptionsByPatient(patientID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list prescriptions")
		return
	}

	writeJSON(w, http.StatusOK, prescriptions)
}

func (h *prescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	prescription, err := h.billingService.Prescription(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPrescriptionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load prescription")
		return
	}

	user := ctxkeys.User(r.Context())
	if user.Role == model.RolePatient {
		patient, perr := h.recordsService.PatientByUser(user.ID)
		if perr != nil || patient.ID != prescription.PatientID {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
	}

	writeJSON(w, http.StatusOK, prescription)
}
