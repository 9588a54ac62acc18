package model

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	Base
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Name      string     `db:"name" json:"name"`
	Species   string     `db:"species" json:"species"`
	Breed     string     `db:"breed" json:"breed,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
}
