package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/email"
	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/internal/repository"
	"github.com/vetbook/booking-api/pkg/logger"
	"github.com/vetbook/booking-api/pkg/messaging"
)

const (
	maxRetries = 3
	retryDelay = 5 * time.Second

	brokerChannel = "notifications"
)

// Notifier is the capability the appointment lifecycle depends on. It is
// injected so tests can substitute a spy; delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, clinicID uuid.UUID, kind model.NotificationKind, title, message string, metadata model.JSONMap) error
}

type Service struct {
	repo       repository.NotificationRepository
	clinicRepo repository.ClinicRepository
	emailSvc   email.Service
	broker     messaging.Broker
	logger     *logger.Logger
}

func NewService(repo repository.NotificationRepository, clinicRepo repository.ClinicRepository, emailSvc email.Service, broker messaging.Broker, logger *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		clinicRepo: clinicRepo,
		emailSvc:   emailSvc,
		broker:     broker,
		logger:     logger,
	}
}

// Notify records the notification and kicks off asynchronous delivery.
// The row is written already claimed as processing, so the dispatch worker
// cannot pick it up while the inline goroutine is still delivering it. On
// delivery failure it lands in retrying and the worker takes over.
func (s *Service) Notify(ctx context.Context, clinicID uuid.UUID, kind model.NotificationKind, title, message string, metadata model.JSONMap) error {
	clinic, err := s.clinicRepo.Get(ctx, clinicID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	notification := &model.Notification{
		ClinicID:  clinicID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Recipient: clinic.Email,
		Metadata:  metadata,
		Status:    model.NotificationStatusProcessing,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	go s.deliver(context.Background(), notification)

	return nil
}

// Deliver sends one notification over both channels and records the
// outcome. Exported for the dispatch worker.
func (s *Service) Deliver(ctx context.Context, notification *model.Notification) error {
	if err := s.emailSvc.SendCustom(ctx, notification.Recipient, notification.Title, notification.Message); err != nil {
		s.recordFailure(ctx, notification, err)
		return err
	}

	event := &model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		ClinicID:       notification.ClinicID,
		Kind:           notification.Kind,
		Title:          notification.Title,
		Message:        notification.Message,
		Metadata:       notification.Metadata,
		CreatedAt:      time.Now(),
	}
	if err := s.broker.Publish(ctx, brokerChannel, event); err != nil {
		// Email already went out; log and keep going.
		s.logger.Error(err, "failed to publish notification event",
			"notification_id", notification.ID.String())
	}

	now := time.Now()
	notification.Status = model.NotificationStatusSent
	notification.SentAt = &now
	notification.NextRetryAt = nil
	notification.LastError = nil

	if err := s.repo.Update(ctx, notification); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, notification *model.Notification) {
	if err := s.Deliver(ctx, notification); err != nil {
		s.logger.Error(err, "notification delivery failed",
			"notification_id", notification.ID.String(),
			"kind", string(notification.Kind))
	}
}

func (s *Service) recordFailure(ctx context.Context, notification *model.Notification, cause error) {
	notification.RetryCount++
	errStr := cause.Error()
	notification.LastError = &errStr

	if notification.RetryCount >= maxRetries {
		notification.Status = model.NotificationStatusFailed
		notification.NextRetryAt = nil
	} else {
		notification.Status = model.NotificationStatusRetrying
		next := time.Now().Add(retryDelay * time.Duration(notification.RetryCount))
		notification.NextRetryAt = &next
	}

	if err := s.repo.Update(ctx, notification); err != nil {
		s.logger.Error(err, "failed to record notification failure",
			"notification_id", notification.ID.String())
	}
}
