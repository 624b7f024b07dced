package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientRepository interface {
	Create(patient *model.Patient) error
	ByID(id string) (*model.Patient, error)
	ByUserID(userID string) (*model.Patient, error)
	Update(patient *model.Patient) error
	Delete(id string) error
	List() ([]model.Patient, error)
	ListByDoctor(doctorID string) ([]model.Patient, error)
}

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(patient *model.Patient) error {
	query := `INSERT INTO patients (id, user_id, doctor_id, date_of_birth, gender, blood_group, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		patient.ID, patient.UserID, patient.DoctorID, patient.DateOfBirth,
		patient.Gender, patient.BloodGroup, patient.Phone, patient.Address,
		patient.CreatedAt, patient.UpdatedAt,
	)
	return err
}

func (r *patientRepository) ByID(id string) (*model.Patient, error) {
	patient := &model.Patient{}
	err := r.db.Get(patient, `SELECT * FROM patients WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	return patient, err
}

func (r *patientRepository) ByUserID(userID string) (*model.Patient, error) {
	patient := &model.Patient{}
	err := r.db.Get(patient, `SELECT * FROM patients WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	return patient, err
}

func (r *patientRepository) Update(patient *model.Patient) error {
	query := `UPDATE patients SET doctor_id = $1, date_of_birth = $2, gender = $3, blood_group = $4, phone = $5, address = $6, updated_at = $7 WHERE id = $8`

	result, err := r.db.Exec(query,
		patient.DoctorID, patient.DateOfBirth, patient.Gender, patient.BloodGroup,
		patient.Phone, patient.Address, time.Now(), patient.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, ErrPatientNotFound)
}

func (r *patientRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrPatientNotFound)
}

func (r *patientRepository) List() ([]model.Patient, error) {
	patients := []model.Patient{}
	err := r.db.Select(&patients, `SELECT * FROM patients ORDER BY created_at DESC`)
	return patients, err
}

func (r *patientRepository) ListByDoctor(doctorID string) ([]model.Patient, error) {
	patients := []model.Patient{}
	err := r.db.Select(&patients, `SELECT * FROM patients WHERE doctor_id = $1 ORDER BY created_at DESC`, doctorID)
	return patients, err
}
