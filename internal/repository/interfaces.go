package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository persists appointments and serves the
	// availability resolver's occupied-time queries.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// FindByClinicAndDate returns the date and status of every
		// non-cancelled appointment at the clinic on the calendar day
		// containing date, optionally filtered to one veterinarian.
		FindByClinicAndDate(ctx context.Context, clinicID uuid.UUID, date time.Time, veterinarianID *uuid.UUID) ([]model.OccupiedSlot, error)
	}

	// OperatingHoursRepository reads and replaces a clinic's weekly
	// schedule. ReplaceAll runs delete+insert in one transaction.
	OperatingHoursRepository interface {
		FindByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.OperatingHours, error)
		FindByClinicAndDay(ctx context.Context, clinicID uuid.UUID, day model.Weekday) (*model.OperatingHours, error)
		ReplaceAll(ctx context.Context, clinicID uuid.UUID, hours []*model.OperatingHours) error
	}

	ClinicRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		GetByEmail(ctx context.Context, email string) (*model.Clinic, error)
		GetService(ctx context.Context, serviceID uuid.UUID) (*model.Service, error)
		ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error)
	}

	PetRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
		ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Pet, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	VeterinarianRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Veterinarian, error)
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Veterinarian, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Update(ctx context.Context, notification *model.Notification) error
		GetPending(ctx context.Context, limit int) ([]*model.Notification, error)
	}
)
