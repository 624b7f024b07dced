package handler

import (
	"errors"
	"net/http"

	"github.com/mediboard/mediboard/internal/ctxkeys"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
)

type invoiceHandler struct {
	billingService *service.BillingService
	recordsService *service.RecordsService
}

func NewInvoiceHandler(
	billingService *service.BillingService,
	recordsService *service.RecordsService,
) *invoiceHandler {
	return &invoiceHandler{
		billingService: billingService,
		recordsService: recordsService,
	}
}

type createInvoiceRequest struct {
	PatientID   string `json:"patient_id"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

func (h *invoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.billingService.CreateInvoice(req.PatientID, req.AmountCents, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrPatientNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not create invoice")
		}
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

func (h *invoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var (
		invoices []model.Invoice
		err      error
	)
	switch user.Role {
	case model.RolePatient:
		patient, perr := h.recordsService.PatientByUser(user.ID)
		if perr != nil {
			writeError(w, http.StatusInternalServerError, "could not load patient profile")
			return
		}
		invoices, err = h.billingService.ListInvoicesByPatient(patient.ID)
	case model.RoleAdmin:
		invoices, err = h.billingService.ListInvoices()
	default:
		// Billing is between the hospital and the patient; doctors have no
		// invoice access.
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list invoices")
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (h *invoiceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req invoiceStatusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.billingService.SetInvoiceStatus(r.PathValue("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInvoiceStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrInvoiceNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "could not update invoice")
		}
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}
