package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, service_id, veterinarian_id,
			user_id, pet_id, client_name, client_phone, pet_name, pet_type,
			appointment_date, notes, payment_method, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClinicID,
		appointment.ServiceID,
		appointment.VeterinarianID,
		appointment.UserID,
		appointment.PetID,
		appointment.ClientName,
		appointment.ClientPhone,
		appointment.PetName,
		appointment.PetType,
		appointment.AppointmentDate,
		appointment.Notes,
		appointment.PaymentMethod,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if translated := translateError(err, "appointment"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, service_id, veterinarian_id,
			   user_id, pet_id, client_name, client_phone, pet_name, pet_type,
			   appointment_date, notes, payment_method, status,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if translated := translateError(err, "appointment"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET service_id = $1, veterinarian_id = $2, appointment_date = $3,
			notes = $4, payment_method = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ServiceID,
		appointment.VeterinarianID,
		appointment.AppointmentDate,
		appointment.Notes,
		appointment.PaymentMethod,
		appointment.Status,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		if translated := translateError(err, "appointment"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM appointments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, service_id, veterinarian_id,
			   user_id, pet_id, client_name, client_phone, pet_name, pet_type,
			   appointment_date, notes, payment_method, status,
			   created_at, updated_at
		FROM appointments
		WHERE clinic_id = $1
	`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.VeterinarianID != nil {
		query += fmt.Sprintf(" AND veterinarian_id = $%d", argCount)
		args = append(args, *filters.VeterinarianID)
		argCount++
	}

	if filters.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filters.UserID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND appointment_date < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY appointment_date ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByClinicAndDate(ctx context.Context, clinicID uuid.UUID, date time.Time, veterinarianID *uuid.UUID) ([]model.OccupiedSlot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT appointment_date, status
		FROM appointments
		WHERE clinic_id = $1
		AND appointment_date >= $2
		AND appointment_date < $3
		AND status != 'cancelled'
	`
	args := []interface{}{clinicID, dayStart, dayEnd}

	if veterinarianID != nil {
		query += " AND veterinarian_id = $4"
		args = append(args, *veterinarianID)
	}

	query += " ORDER BY appointment_date ASC"

	var occupied []model.OccupiedSlot
	if err := r.db.SelectContext(ctx, &occupied, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find appointments for date: %w", err)
	}
	return occupied, nil
}
