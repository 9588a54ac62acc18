package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// statusTransitions is the allowed state machine. Completed and cancelled
// are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

// IsValid reports whether s is a known appointment status.
func (s AppointmentStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status may move to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a single storage row for both booking paths. Registered
// bookings carry user_id/pet_id; walk-ins carry the client_* and pet_*
// free-text fields instead.
type Appointment struct {
	Base
	ClinicID        uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	ServiceID       uuid.UUID         `db:"service_id" json:"service_id"`
	VeterinarianID  *uuid.UUID        `db:"veterinarian_id" json:"veterinarian_id,omitempty"`
	UserID          *uuid.UUID        `db:"user_id" json:"user_id,omitempty"`
	PetID           *uuid.UUID        `db:"pet_id" json:"pet_id,omitempty"`
	ClientName      *string           `db:"client_name" json:"client_name,omitempty"`
	ClientPhone     *string           `db:"client_phone" json:"client_phone,omitempty"`
	PetName         *string           `db:"pet_name" json:"pet_name,omitempty"`
	PetType         *string           `db:"pet_type" json:"pet_type,omitempty"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
	PaymentMethod   *string           `db:"payment_method" json:"payment_method,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
}

// IsWalkIn reports whether this appointment was created by the clinic for
// an unregistered client.
func (a *Appointment) IsWalkIn() bool {
	return a.UserID == nil
}

// SlotTime returns the clock time of the appointment formatted the way the
// slot grid produces it.
func (a *Appointment) SlotTime() string {
	return a.AppointmentDate.Format("15:04")
}

type CreateAppointmentRequest struct {
	PetID           uuid.UUID  `json:"pet_id" binding:"required"`
	ClinicID        uuid.UUID  `json:"clinic_id" binding:"required"`
	ServiceID       uuid.UUID  `json:"service_id" binding:"required"`
	VeterinarianID  *uuid.UUID `json:"veterinarian_id"`
	AppointmentDate time.Time  `json:"appointment_date" binding:"required"`
	Notes           string     `json:"notes" binding:"max=1000"`
	PaymentMethod   *string    `json:"payment_method"`
}

type CreateWalkInRequest struct {
	ClientName      string     `json:"client_name" binding:"required,max=200"`
	ClientPhone     string     `json:"client_phone" binding:"required,max=30"`
	PetName         string     `json:"pet_name" binding:"required,max=200"`
	PetType         string     `json:"pet_type" binding:"required,max=100"`
	ServiceID       uuid.UUID  `json:"service_id" binding:"required"`
	VeterinarianID  *uuid.UUID `json:"veterinarian_id"`
	AppointmentDate time.Time  `json:"appointment_date" binding:"required"`
	Notes           string     `json:"notes" binding:"max=1000"`
	PaymentMethod   *string    `json:"payment_method"`
}

// UpdateAppointmentRequest is a partial update; nil fields are left
// unchanged.
type UpdateAppointmentRequest struct {
	VeterinarianID  *uuid.UUID         `json:"veterinarian_id"`
	ServiceID       *uuid.UUID         `json:"service_id"`
	AppointmentDate *time.Time         `json:"appointment_date"`
	Notes           *string            `json:"notes"`
	Status          *AppointmentStatus `json:"status"`
	PaymentMethod   *string            `json:"payment_method"`
}

type AppointmentFilters struct {
	ClinicID       uuid.UUID
	VeterinarianID *uuid.UUID
	UserID         *uuid.UUID
	Status         AppointmentStatus
	StartDate      time.Time
	EndDate        time.Time
}

// OccupiedSlot is the projection the availability resolver reads: the
// timestamp and status of a booked appointment.
type OccupiedSlot struct {
	AppointmentDate time.Time         `db:"appointment_date"`
	Status          AppointmentStatus `db:"status"`
}
