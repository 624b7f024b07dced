package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrPrescriptionNotFound = errors.New("prescription not found")

type PrescriptionRepository interface {
	Create(prescription *model.Prescription) error
	ByID(id string) (*model.Prescription, error)
	Delete(id string) error
	ListByPatient(patientID string) ([]model.Prescription, error)
	ListByDoctor(doctorID string) ([]model.Prescription, error)
}

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(prescription *model.Prescription) error {
	query := `INSERT INTO prescriptions (id, patient_id, doctor_id, medications, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		prescription.ID, prescription.PatientID, prescription.DoctorID,
		prescription.Medications, prescription.Notes, prescription.CreatedAt,
	)
	return err
}

func (r *prescriptionRepository) ByID(id string) (*model.Prescription, error) {
	prescription := &model.Prescription{}
	err := r.db.Get(prescription, `SELECT * FROM prescriptions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrPrescriptionNotFound
	}
	return prescription, err
}

func (r *prescriptionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrPrescriptionNotFound)
}

func (r *prescriptionRepository) ListByPatient(patientID string) ([]model.Prescription, error) {
	prescriptions := []model.Prescription{}
	err := r.db.Select(&prescriptions, `SELECT * FROM prescriptions WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	return prescriptions, err
}

func (r *prescriptionRepository) ListByDoctor(doctorID string) ([]model.Prescription, error) {
	prescriptions := []model.Prescription{}
	err := r.db.Select(&prescriptions, `SELECT * FROM prescriptions WHERE doctor_id = $1 ORDER BY created_at DESC`, doctorID)
	return prescriptions, err
}
