package model

import (
	"github.com/google/uuid"
)

type Veterinarian struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name      string    `db:"name" json:"name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Status    string    `db:"status" json:"status"`
}
