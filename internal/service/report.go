package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/storage"
)

var ErrStorageUnconfigured = errors.New("file storage is not configured")

// ReportService stores lab test reports: file bytes in blob storage,
// a metadata row in the database.
type ReportService struct {
	reports       repository.LabReportRepository
	patients      repository.PatientRepository
	storage       storage.Storage
	presignExpiry time.Duration
	notifications *NotificationService
}

func NewReportService(
	reports repository.LabReportRepository,
	patients repository.PatientRepository,
	store storage.Storage,
	presignExpiry time.Duration,
	notifications *NotificationService,
) *ReportService {
	return &ReportService{
		reports:       reports,
		patients:      patients,
		storage:       store,
		presignExpiry: presignExpiry,
		notifications: notifications,
	}
}

// Upload writes the file to the bucket first, then the metadata row; an
// orphaned object from a failed insert is cleaned up best-effort.
func (s *ReportService) Upload(patientID, doctorID, testName, fileName, contentType string, file io.Reader) (*model.LabReport, error) {
	if s.storage == nil {
		return nil, ErrStorageUnconfigured
	}

	patient, err := s.patients.ByID(patientID)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	path := fmt.Sprintf("lab-reports/%s/%s", patient.ID, id)

	err = s.storage.Save(path, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store report file: %w", err)
	}

	report := &model.LabReport{
		ID:          id,
		PatientID:   patient.ID,
		DoctorID:    doctorID,
		TestName:    testName,
		FileName:    fileName,
		ContentType: contentType,
		StoragePath: path,
		CreatedAt:   time.Now(),
	}

	err = s.reports.Create(report)
	if err != nil {
		if delErr := s.storage.Delete(path); delErr != nil {
			slog.Warn("failed to remove orphaned report file", "error", delErr, "path", path)
		}
		return nil, fmt.Errorf("failed to create report record: %w", err)
	}

	s.notifications.Notify(patient.UserID, "Lab report ready",
		fmt.Sprintf("Your %s report is available.", testName), true)

	slog.Info("lab report uploaded", "report_id", report.ID, "patient_id", patient.ID)
	return report, nil
}

func (s *ReportService) ByID(id string) (*model.LabReport, error) {
	return s.reports.ByID(id)
}

func (s *ReportService) ListByPatient(patientID string) ([]model.LabReport, error) {
	return s.reports.ListByPatient(patientID)
}

// DownloadURL returns a time-limited link to the stored file.
func (s *ReportService) DownloadURL(report *model.LabReport) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnconfigured
	}
	return s.storage.PresignedURL(report.StoragePath, s.presignExpiry)
}
