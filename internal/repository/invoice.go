package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepository interface {
	Create(invoice *model.Invoice) error
	ByID(id string) (*model.Invoice, error)
	UpdateStatus(id, status string) error
	List() ([]model.Invoice, error)
	ListByPatient(patientID string) ([]model.Invoice, error)
}

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(invoice *model.Invoice) error {
	query := `INSERT INTO invoices (id, patient_id, amount_cents, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		invoice.ID, invoice.PatientID, invoice.AmountCents,
		invoice.Description, invoice.Status, invoice.CreatedAt, invoice.UpdatedAt,
	)
	return err
}

func (r *invoiceRepository) ByID(id string) (*model.Invoice, error) {
	invoice := &model.Invoice{}
	err := r.db.Get(invoice, `SELECT * FROM invoices WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	return invoice, err
}

func (r *invoiceRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrInvoiceNotFound)
}

func (r *invoiceRepository) List() ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	err := r.db.Select(&invoices, `SELECT * FROM invoices ORDER BY created_at DESC`)
	return invoices, err
}

func (r *invoiceRepository) ListByPatient(patientID string) ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	err := r.db.Select(&invoices, `SELECT * FROM invoices WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	return invoices, err
}
