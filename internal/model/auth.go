package model

import (
	"github.com/google/uuid"
)

type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeClinic ActorType = "clinic"
)

// Actor identifies who is performing an operation: a registered pet owner
// or a clinic account.
type Actor struct {
	Type ActorType
	ID   uuid.UUID
}

type TokenClaims struct {
	ActorID   uuid.UUID `json:"actor_id"`
	ActorType ActorType `json:"actor_type"`
	Email     string    `json:"email"`
}

type LoginRequest struct {
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8"`
	Scope    ActorType `json:"scope" binding:"required,oneof=user clinic"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ActorType ActorType `json:"actor_type"`
	ActorID   uuid.UUID `json:"actor_id"`
}
