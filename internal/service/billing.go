package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status")
)

// BillingService covers prescriptions and invoices. Both are plain internal
// records; there is no payment-provider integration.
type BillingService struct {
	prescriptions repository.PrescriptionRepository
	invoices      repository.InvoiceRepository
	patients      repository.PatientRepository
	notifications *NotificationService
}

func NewBillingService(
	prescriptions repository.PrescriptionRepository,
	invoices repository.InvoiceRepository,
	patients repository.PatientRepository,
	notifications *NotificationService,
) *BillingService {
	return &BillingService{
		prescriptions: prescriptions,
		invoices:      invoices,
		patients:      patients,
		notifications: notifications,
	}
}

func (s *BillingService) CreatePrescription(patientID, doctorID, medications, notes string) (*model.Prescription, error) {
	patient, err := s.patients.ByID(patientID)
	if err != nil {
		return nil, err
	}

	prescription := &model.Prescription{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		DoctorID:    doctorID,
		Medications: medications,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	err = s.prescriptions.Create(prescription)
	if err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}

	s.notifications.Notify(patient.UserID, "New prescription",
		"Your doctor has issued a new prescription.", false)

	slog.Info("prescription created", "prescription_id", prescription.ID, "patient_id", patient.ID)
	return prescription, nil
}

func (s *BillingService) Prescription(id string) (*model.Prescription, error) {
	return s.prescriptions.ByID(id)
}

func (s *BillingService) ListPrescriptionsByPatient(patientID string) ([]model.Prescription, error) {
	return s.prescriptions.ListByPatient(patientID)
}

func (s *BillingService) ListPrescriptionsByDoctor(doctorID string) ([]model.Prescription, error) {
	return s.prescriptions.ListByDoctor(doctorID)
}

func (s *BillingService) CreateInvoice(patientID string, amountCents int64, description string) (*model.Invoice, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	patient, err := s.patients.ByID(patientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &model.Invoice{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		AmountCents: amountCents,
		Description: description,
		Status:      model.InvoicePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.invoices.Create(invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.notifications.Notify(patient.UserID, "New invoice",
		fmt.Sprintf("An invoice of %d.%02d is due.", amountCents/100, amountCents%100), false)

	slog.Info("invoice created", "invoice_id", invoice.ID, "patient_id", patient.ID)
	return invoice, nil
}

func (s *BillingService) SetInvoiceStatus(id, status string) (*model.Invoice, error) {
	if !model.ValidInvoiceStatus(status) {
		return nil, ErrInvalidInvoiceStatus
	}

	invoice, err := s.invoices.ByID(id)
	if err != nil {
		return nil, err
	}

	err = s.invoices.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	invoice.Status = status

	slog.Info("invoice status changed", "invoice_id", id, "status", status)
	return invoice, nil
}

func (s *BillingService) Invoice(id string) (*model.Invoice, error) {
	return s.invoices.ByID(id)
}

func (s *BillingService) ListInvoices() ([]model.Invoice, error) {
	return s.invoices.List()
}

func (s *BillingService) ListInvoicesByPatient(patientID string) ([]model.Invoice, error) {
	return s.invoices.ListByPatient(patientID)
}
