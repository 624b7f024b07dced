package model

import (
	"time"
)

type Prescription struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
	// Medications is a JSON array of {name, dosage, frequency, duration}.
	Medications string    `db:"medications" json:"medications"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
