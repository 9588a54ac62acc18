package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
)

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, clinic_id, kind, title, message, recipient, metadata,
			status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.ClinicID,
		notification.Kind,
		notification.Title,
		notification.Message,
		notification.Recipient,
		notification.Metadata,
		notification.Status,
		notification.RetryCount,
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, retry_count = $2, last_error = $3, next_retry_at = $4,
			sent_at = $5, updated_at = $6
		WHERE id = $7
	`
	notification.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		notification.Status,
		notification.RetryCount,
		notification.LastError,
		notification.NextRetryAt,
		notification.SentAt,
		notification.UpdatedAt,
		notification.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("notification", nil)
	}

	return nil
}

// GetPending claims a batch of deliverable notifications by flipping them
// to processing in the same statement that selects them. The claim survives
// the call, so a competing worker polling at the same moment cannot pick up
// the same rows. Rows stuck in processing for over five minutes are
// reclaimed so a crashed worker does not strand them.
func (r *notificationRepository) GetPending(ctx context.Context, limit int) ([]*model.Notification, error) {
	query := `
		UPDATE notifications
		SET status = 'processing', updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM notifications
			WHERE (status IN ('pending', 'retrying')
			       AND (next_retry_at IS NULL OR next_retry_at <= NOW()))
			   OR (status = 'processing' AND updated_at < NOW() - INTERVAL '5 minutes')
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, clinic_id, kind, title, message, recipient, metadata,
			  status, retry_count, last_error, next_retry_at, sent_at,
			  created_at, updated_at
	`
	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, limit); err != nil {
		return nil, fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	return notifications, nil
}
