package model

import (
	"time"
)

type Doctor struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Speciality string    `db:"speciality" json:"speciality"`
	Department string    `db:"department" json:"department"`
	Phone      string    `db:"phone" json:"phone"`
	Available  bool      `db:"available" json:"available"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
