package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
)

func (r *operatingHoursRepository) FindByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.OperatingHours, error) {
	query := `
		SELECT id, clinic_id, day_of_week, open_time, close_time, is_open,
			   created_at, updated_at
		FROM operating_hours
		WHERE clinic_id = $1
	`
	var hours []*model.OperatingHours
	if err := r.db.SelectContext(ctx, &hours, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list operating hours: %w", err)
	}
	return hours, nil
}

func (r *operatingHoursRepository) FindByClinicAndDay(ctx context.Context, clinicID uuid.UUID, day model.Weekday) (*model.OperatingHours, error) {
	query := `
		SELECT id, clinic_id, day_of_week, open_time, close_time, is_open,
			   created_at, updated_at
		FROM operating_hours
		WHERE clinic_id = $1 AND day_of_week = $2
	`
	var hours model.OperatingHours
	if err := r.db.GetContext(ctx, &hours, query, clinicID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row means the clinic never configured this weekday;
			// the slot generator treats that as closed.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operating hours: %w", err)
	}
	return &hours, nil
}

// ReplaceAll swaps the clinic's whole weekly schedule in one transaction so
// a mid-failure leaves the previous hours intact.
func (r *operatingHoursRepository) ReplaceAll(ctx context.Context, clinicID uuid.UUID, hours []*model.OperatingHours) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM operating_hours WHERE clinic_id = $1`, clinicID); err != nil {
		return fmt.Errorf("failed to clear operating hours: %w", err)
	}

	insert := `
		INSERT INTO operating_hours (
			id, clinic_id, day_of_week, open_time, close_time, is_open,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	for _, h := range hours {
		h.ID = uuid.New()
		h.ClinicID = clinicID
		h.CreatedAt = now
		h.UpdatedAt = now

		if _, err := tx.ExecContext(ctx, insert,
			h.ID,
			h.ClinicID,
			h.DayOfWeek,
			h.OpenTime,
			h.CloseTime,
			h.IsOpen,
			h.CreatedAt,
			h.UpdatedAt,
		); err != nil {
			if translated := translateError(err, "operating hours"); translated != err {
				return translated
			}
			return fmt.Errorf("failed to insert operating hours: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit operating hours: %w", err)
	}
	return nil
}
