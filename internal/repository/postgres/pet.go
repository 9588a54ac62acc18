package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
)

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, user_id, name, species, breed, birth_date,
			   created_at, updated_at
		FROM pets
		WHERE id = $1
	`
	var pet model.Pet
	if err := r.db.GetContext(ctx, &pet, query, id); err != nil {
		if translated := translateError(err, "pet"); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Pet, error) {
	query := `
		SELECT id, user_id, name, species, breed, birth_date,
			   created_at, updated_at
		FROM pets
		WHERE user_id = $1
		ORDER BY name ASC
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}
