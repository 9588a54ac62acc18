package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "pending"
	NotificationStatusProcessing NotificationStatus = "processing"
	NotificationStatusSent       NotificationStatus = "sent"
	NotificationStatusFailed     NotificationStatus = "failed"
	NotificationStatusRetrying   NotificationStatus = "retrying"
)

type NotificationKind string

const (
	NotificationKindAppointment  NotificationKind = "appointment"
	NotificationKindConfirmation NotificationKind = "confirmation"
)

type Notification struct {
	Base
	ClinicID    uuid.UUID          `db:"clinic_id" json:"clinic_id"`
	Kind        NotificationKind   `db:"kind" json:"kind"`
	Title       string             `db:"title" json:"title"`
	Message     string             `db:"message" json:"message"`
	Recipient   string             `db:"recipient" json:"recipient"`
	Metadata    JSONMap            `db:"metadata" json:"metadata,omitempty"`
	Status      NotificationStatus `db:"status" json:"status"`
	RetryCount  int                `db:"retry_count" json:"retry_count"`
	LastError   *string            `db:"last_error" json:"last_error,omitempty"`
	NextRetryAt *time.Time         `db:"next_retry_at" json:"next_retry_at,omitempty"`
	SentAt      *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
}

// NotificationEvent is the payload published to the message broker for
// in-app delivery.
type NotificationEvent struct {
	ID             uuid.UUID        `json:"id"`
	NotificationID uuid.UUID        `json:"notification_id"`
	ClinicID       uuid.UUID        `json:"clinic_id"`
	Kind           NotificationKind `json:"kind"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Metadata       JSONMap          `json:"metadata,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
