package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorRepository interface {
	Create(doctor *model.Doctor) error
	ByID(id string) (*model.Doctor, error)
	ByUserID(userID string) (*model.Doctor, error)
	Update(doctor *model.Doctor) error
	Delete(id string) error
	List() ([]model.Doctor, error)
}

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(doctor *model.Doctor) error {
	query := `INSERT INTO doctors (id, user_id, speciality, department, phone, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		doctor.ID, doctor.UserID, doctor.Speciality, doctor.Department,
		doctor.Phone, doctor.Available, doctor.CreatedAt, doctor.UpdatedAt,
	)
	return err
}

func (r *doctorRepository) ByID(id string) (*model.Doctor, error) {
	doctor := &model.Doctor{}
	err := r.db.Get(doctor, `SELECT * FROM doctors WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	return doctor, err
}

func (r *doctorRepository) ByUserID(userID string) (*model.Doctor, error) {
	doctor := &model.Doctor{}
	err := r.db.Get(doctor, `SELECT * FROM doctors WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	return doctor, err
}

func (r *doctorRepository) Update(doctor *model.Doctor) error {
	query := `UPDATE doctors SET speciality = $1, department = $2, phone = $3, available = $4, updated_at = $5 WHERE id = $6`

	result, err := r.db.Exec(query,
		doctor.Speciality, doctor.Department, doctor.Phone, doctor.Available,
		time.Now(), doctor.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, ErrDoctorNotFound)
}

func (r *doctorRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrDoctorNotFound)
}

func (r *doctorRepository) List() ([]model.Doctor, error) {
	doctors := []model.Doctor{}
	err := r.db.Select(&doctors, `SELECT * FROM doctors ORDER BY created_at DESC`)
	return doctors, err
}
