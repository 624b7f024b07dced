package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

// maxReportSize caps lab report uploads at 20 MB.
const maxReportSize = 20 << 20

type reportHandler struct {
	reportService  *service.ReportService
	recordsService *service.RecordsService
}

func NewReportHandler(
	reportService *service.ReportService,
	recordsService *service.RecordsService,
) *reportHandler {
	return &reportHandler{
		reportService:  reportService,
		recordsService: recordsService,
	}
}

func (h *reportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReportSize)
	err := r.ParseMultipartForm(maxReportSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	patientID := r.FormValue("patient_id")
	testName := r.FormValue("test_name")
	if patientID == "" || testName == "" {
		writeError(w, http.StatusBadRequest, "patient_id and test_name are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	user := ctxkeys.User(r.Context())
	doctor, err := h.recordsService.DoctorByUser(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load doctor profile")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	report, err := h.reportService.Upload(patientID, doctor.ID, testName, header.Filename, contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPatientNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStorageUnconfigured):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not upload report")
		}
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *reportHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
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

	reports, err := h.reportService.ListByPatient(patient.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list reports")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

func (h *reportHandler) Download(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.ByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrLabReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}

	user := ctxkeys.User(r.Context())
	if user.Role == model.RolePatient {
		patient, perr := h.recordsService.PatientByUser(user.ID)
		if perr != nil || patient.ID != report.PatientID {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
	}

	url, err := h.reportService.DownloadURL(report)
	if err != nil {
		if errors.Is(err, service.ErrStorageUnconfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not generate download link")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
