package model

import (
	"github.com/google/uuid"
)

// Service is a bookable clinic offering. DurationMinutes is informational;
// the slot grid keeps its fixed 30-minute stride regardless.
type Service struct {
	Base
	ClinicID        uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes,omitempty"`
	Price           float64   `db:"price" json:"price"`
	Status          string    `db:"status" json:"status"`
}
