package postgres

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vetbook/booking-api/internal/repository"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type operatingHoursRepository struct {
	db *sqlx.DB
}

type clinicRepository struct {
	db *sqlx.DB
}

type petRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type veterinarianRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewOperatingHoursRepository(db *sqlx.DB) repository.OperatingHoursRepository {
	return &operatingHoursRepository{db: db}
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func NewPetRepository(db *sqlx.DB) repository.PetRepository {
	return &petRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewVeterinarianRepository(db *sqlx.DB) repository.VeterinarianRepository {
	return &veterinarianRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// uniqueSlotConstraint backs the no-double-booking guarantee: a partial
// unique index on (clinic_id, veterinarian_id, appointment_date) that
// excludes cancelled rows and folds a NULL vet to a sentinel so vet-less
// bookings collide too.
const uniqueSlotConstraint = "appointments_clinic_vet_slot_key"

// translateError maps driver errors into the application error taxonomy.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		if pqErr.Constraint == uniqueSlotConstraint {
			return apperrors.Conflict("time slot is already booked", err)
		}
		return apperrors.Conflict("duplicate row", err)
	}
	return err
}
