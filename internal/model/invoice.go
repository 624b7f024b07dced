package model

import (
	"time"
)

const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceVoid    = "void"
)

type Invoice struct {
	ID          string    `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoicePending, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}
