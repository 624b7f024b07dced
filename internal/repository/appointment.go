package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(appointment *model.Appointment) error
	ByID(id string) (*model.Appointment, error)
	UpdateStatus(id, status string) error
	List() ([]model.Appointment, error)
	ListByPatient(patientID string) ([]model.Appointment, error)
	ListByDoctor(doctorID string) ([]model.Appointment, error)
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(appointment *model.Appointment) error {
	query := `INSERT INTO appointments (id, patient_id, doctor_id, starts_at, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		appointment.ID, appointment.PatientID, appointment.DoctorID,
		appointment.StartsAt, appointment.Reason, appointment.Status,
		appointment.CreatedAt, appointment.UpdatedAt,
	)
	return err
}

func (r *appointmentRepository) ByID(id string) (*model.Appointment, error) {
	appointment := &model.Appointment{}
	err := r.db.Get(appointment, `SELECT * FROM appointments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	return appointment, err
}

func (r *appointmentRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrAppointmentNotFound)
}

func (r *appointmentRepository) List() ([]model.Appointment, error) {
	appointments := []model.Appointment{}
	err := r.db.Select(&appointments, `SELECT * FROM appointments ORDER BY starts_at DESC`)
	return appointments, err
}

func (r *appointmentRepository) ListByPatient(patientID string) ([]model.Appointment, error) {
	appointments := []model.Appointment{}
	err := r.db.Select(&appointments, `SELECT * FROM appointments WHERE patient_id = $1 ORDER BY starts_at DESC`, patientID)
	return appointments, err
}

func (r *appointmentRepository) ListByDoctor(doctorID string) ([]model.Appointment, error) {
	appointments := []model.Appointment{}
	err := r.db.Select(&appointments, `SELECT * FROM appointments WHERE doctor_id = $1 ORDER BY starts_at DESC`, doctorID)
	return appointments, err
}
