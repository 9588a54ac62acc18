package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
)

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, email, password_hash, address, phone, status,
			   created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		if translated := translateError(err, "clinic"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) GetByEmail(ctx context.Context, email string) (*model.Clinic, error) {
	query := `
		SELECT id, name, email, password_hash, address, phone, status,
			   created_at, updated_at
		FROM clinics
		WHERE email = $1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, email); err != nil {
		if translated := translateError(err, "clinic"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get clinic by email: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) GetService(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, clinic_id, name, description, duration_minutes, price, status,
			   created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, serviceID); err != nil {
		if translated := translateError(err, "service"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *clinicRepository) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT id, clinic_id, name, description, duration_minutes, price, status,
			   created_at, updated_at
		FROM services
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
