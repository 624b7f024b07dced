package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/model"
)

var ErrLabReportNotFound = errors.New("lab report not found")

type LabReportRepository interface {
	Create(report *model.LabReport) error
	ByID(id string) (*model.LabReport, error)
	Delete(id string) error
	ListByPatient(patientID string) ([]model.LabReport, error)
}

type labReportRepository struct {
	db *sqlx.DB
}

func NewLabReportRepository(db *sqlx.DB) LabReportRepository {
	return &labReportRepository{db: db}
}

func (r *labReportRepository) Create(report *model.LabReport) error {
	query := `INSERT INTO lab_reports (id, patient_id, doctor_id, test_name, file_name, content_type, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		report.ID, report.PatientID, report.DoctorID, report.TestName,
		report.FileName, report.ContentType, report.StoragePath, report.CreatedAt,
	)
	return err
}

func (r *labReportRepository) ByID(id string) (*model.LabReport, error) {
	report := &model.LabReport{}
	err := r.db.Get(report, `SELECT * FROM lab_reports WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrLabReportNotFound
	}
	return report, err
}

func (r *labReportRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM lab_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrLabReportNotFound)
}

func (r *labReportRepository) ListByPatient(patientID string) ([]model.LabReport, error) {
	reports := []model.LabReport{}
	err := r.db.Select(&reports, `SELECT * FROM lab_reports WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	return reports, err
}
