package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
)

func (r *veterinarianRepository) Get(ctx context.Context, id uuid.UUID) (*model.Veterinarian, error) {
	query := `
		SELECT id, clinic_id, name, specialty, status, created_at, updated_at
		FROM veterinarians
		WHERE id = $1
	`
	var vet model.Veterinarian
	if err := r.db.GetContext(ctx, &vet, query, id); err != nil {
		if translated := translateError(err, "veterinarian"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get veterinarian: %w", err)
	}
	return &vet, nil
}

func (r *veterinarianRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Veterinarian, error) {
	query := `
		SELECT id, clinic_id, name, specialty, status, created_at, updated_at
		FROM veterinarians
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var vets []*model.Veterinarian
	if err := r.db.SelectContext(ctx, &vets, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list veterinarians: %w", err)
	}
	return vets, nil
}
