package model

import (
	"time"
)

type Patient struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	DoctorID   *string    `db:"doctor_id" json:"doctor_id,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender     string     `db:"gender" json:"gender"`
	BloodGroup string     `db:"blood_group" json:"blood_group"`
	Phone      string     `db:"phone" json:"phone"`
	Address    string     `db:"address" json:"address"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
