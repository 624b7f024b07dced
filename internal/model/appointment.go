package model

import (
	"time"
)

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	Reason    string    `db:"reason" json:"reason"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CanTransition reports whether the appointment may move to the given status.
// Completed and cancelled are terminal.
func (a *Appointment) CanTransition(status string) bool {
	if a.Status != AppointmentScheduled {
		return false
	}
	return status == AppointmentCompleted || status == AppointmentCancelled
}
