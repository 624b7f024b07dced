package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

var (
	ErrAppointmentInPast     = errors.New("appointment must be scheduled in the future")
	ErrDoctorUnavailable     = errors.New("doctor is not available")
	ErrInvalidTransition     = errors.New("appointment cannot change to that status")
	ErrAppointmentNotAllowed = errors.New("not allowed to modify this appointment")
)

type AppointmentService struct {
	appointments  repository.AppointmentRepository
	patients      repository.PatientRepository
	doctors       repository.DoctorRepository
	notifications *NotificationService
}

func NewAppointmentService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	notifications *NotificationService,
) *AppointmentService {
	return &AppointmentService{
		appointments:  appointments,
		patients:      patients,
		doctors:       doctors,
		notifications: notifications,
	}
}

// Book validates the doctor and slot, persists the appointment, then fans
// out notifications. Notification delivery never fails the booking.
func (s *AppointmentService) Book(patientID, doctorID string, startsAt time.Time, reason string) (*model.Appointment, error) {
	if !startsAt.After(time.Now()) {
		return nil, ErrAppointmentInPast
	}

	patient, err := s.patients.ByID(patientID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctors.ByID(doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}

	now := time.Now()
	appointment := &model.Appointment{
		ID:        uuid.New().String(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartsAt:  startsAt,
		Reason:    reason,
		Status:    model.AppointmentScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.appointments.Create(appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	when := startsAt.Format(time.RFC1123)
	s.notifications.Notify(patient.UserID, "Appointment booked",
		fmt.Sprintf("Your appointment is scheduled for %s.", when), true)
	s.notifications.Notify(doctor.UserID, "New appointment",
		fmt.Sprintf("A new appointment was booked for %s.", when), false)

	slog.Info("appointment booked", "appointment_id", appointment.ID, "doctor_id", doctor.ID, "patient_id", patient.ID)
	return appointment, nil
}

// SetStatus moves an appointment to completed or cancelled, enforcing that
// scheduled is the only non-terminal state.
func (s *AppointmentService) SetStatus(id, status string) (*model.Appointment, error) {
	appointment, err := s.appointments.ByID(id)
	if err != nil {
		return nil, err
	}

	if !appointment.CanTransition(status) {
		return nil, ErrInvalidTransition
	}

	err = s.appointments.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	appointment.Status = status

	if status == model.AppointmentCancelled {
		patient, err := s.patients.ByID(appointment.PatientID)
		if err == nil {
			s.notifications.Notify(patient.UserID, "Appointment cancelled",
				"Your appointment has been cancelled.", true)
		}
	}

	slog.Info("appointment status changed", "appointment_id", id, "status", status)
	return appointment, nil
}

func (s *AppointmentService) ByID(id string) (*model.Appointment, error) {
	return s.appointments.ByID(id)
}

// ListForUser scopes the listing by role: admins see everything, doctors
// and patients see their own.
func (s *AppointmentService) ListForUser(user *model.User) ([]model.Appointment, error) {
	switch user.Role {
	case model.RoleAdmin:
		return s.appointments.List()
	case model.RoleDoctor:
		doctor, err := s.doctors.ByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		return s.appointments.ListByDoctor(doctor.ID)
	default:
		patient, err := s.patients.ByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		return s.appointments.ListByPatient(patient.ID)
	}
}
