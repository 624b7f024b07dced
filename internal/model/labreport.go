package model

import (
	"time"
)

// LabReport is the metadata row for an uploaded test result; the file
// bytes live in blob storage under StoragePath.
type LabReport struct {
	ID          string    `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	DoctorID    string    `db:"doctor_id" json:"doctor_id"`
	TestName    string    `db:"test_name" json:"test_name"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	StoragePath string    `db:"storage_path" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
