package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

// RecordsService manages the clinical directory: doctor profiles and
// patient records, each backed by a user account.
type RecordsService struct {
	auth     *AuthService
	users    repository.UserRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
}

func NewRecordsService(
	auth *AuthService,
	users repository.UserRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
) *RecordsService {
	return &RecordsService{
		auth:     auth,
		users:    users,
		patients: patients,
		doctors:  doctors,
	}
}

type DoctorInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Speciality string `json:"speciality"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// CreateDoctor registers the staff account and its profile row. There is no
// cross-table transaction here; a profile insert failure leaves an account
// without a profile, which the admin list surfaces for cleanup.
func (s *RecordsService) CreateDoctor(in DoctorInput) (*model.Doctor, error) {
	user, err := s.auth.Register(in.Name, in.Email, in.Password, model.RoleDoctor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doctor := &model.Doctor{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Speciality: in.Speciality,
		Department: in.Department,
		Phone:      in.Phone,
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.doctors.Create(doctor)
	if err != nil {
		return nil, fmt.Errorf("failed to create doctor profile: %w", err)
	}

	slog.Info("doctor created", "doctor_id", doctor.ID, "user_id", user.ID)
	return doctor, nil
}

type PatientInput struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	DoctorID    *string    `json:"doctor_id,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender"`
	BloodGroup  string     `json:"blood_group"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
}

func (s *RecordsService) CreatePatient(in PatientInput) (*model.Patient, error) {
	if in.DoctorID != nil {
		_, err := s.doctors.ByID(*in.DoctorID)
		if err != nil {
			return nil, err
		}
	}

	user, err := s.auth.Register(in.Name, in.Email, in.Password, model.RolePatient)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patient := &model.Patient{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		DoctorID:    in.DoctorID,
		DateOfBirth: in.DateOfBirth,
		Gender:      in.Gender,
		BloodGroup:  in.BloodGroup,
		Phone:       in.Phone,
		Address:     in.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.patients.Create(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient record: %w", err)
	}

	slog.Info("patient created", "patient_id", patient.ID, "user_id", user.ID)
	return patient, nil
}

func (s *RecordsService) Doctor(id string) (*model.Doctor, error) {
	return s.doctors.ByID(id)
}

func (s *RecordsService) DoctorByUser(userID string) (*model.Doctor, error) {
	return s.doctors.ByUserID(userID)
}

func (s *RecordsService) ListDoctors() ([]model.Doctor, error) {
	return s.doctors.List()
}

func (s *RecordsService) UpdateDoctor(doctor *model.Doctor) error {
	return s.doctors.Update(doctor)
}

func (s *RecordsService) Patient(id string) (*model.Patient, error) {
	return s.patients.ByID(id)
}

func (s *RecordsService) PatientByUser(userID string) (*model.Patient, error) {
	return s.patients.ByUserID(userID)
}

func (s *RecordsService) ListPatients() ([]model.Patient, error) {
	return s.patients.List()
}

func (s *RecordsService) ListPatientsByDoctor(doctorID string) ([]model.Patient, error) {
	return s.patients.ListByDoctor(doctorID)
}

func (s *RecordsService) UpdatePatient(patient *model.Patient) error {
	if patient.DoctorID != nil {
		_, err := s.doctors.ByID(*patient.DoctorID)
		if err != nil {
			return err
		}
	}
	return s.patients.Update(patient)
}

// CanAccessPatient reports whether user may read the patient record:
// admins always, doctors for their own patients, patients for themselves.
func (s *RecordsService) CanAccessPatient(user *model.User, patient *model.Patient) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDoctor:
		doctor, err := s.doctors.ByUserID(user.ID)
		if err != nil {
			return false
		}
		return patient.DoctorID != nil && *patient.DoctorID == doctor.ID
	default:
		return patient.UserID == user.ID
	}
}
