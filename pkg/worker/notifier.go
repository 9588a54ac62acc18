package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vetbook/booking-api/internal/repository"
	"github.com/vetbook/booking-api/internal/service/notification"
	"github.com/vetbook/booking-api/pkg/logger"
	"github.com/vetbook/booking-api/pkg/metrics"
)

type NotifierConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// NotificationDispatcher redelivers notifications left pending or retrying
// by the API process. Each poll claims its batch, so running several
// dispatchers does not double-send.
type NotificationDispatcher struct {
	repo    repository.NotificationRepository
	svc     *notification.Service
	config  NotifierConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotificationDispatcher(
	repo repository.NotificationRepository,
	svc *notification.Service,
	config NotifierConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *NotificationDispatcher {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}

	return &NotificationDispatcher{
		repo:    repo,
		svc:     svc,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *NotificationDispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("Starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := d.dispatchBatch(ctx); err != nil {
				d.logger.Error(err, "Failed to dispatch notifications")
			}
		}
	}
}

func (d *NotificationDispatcher) dispatchBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.NotificationLatency)
	defer timer.ObserveDuration()

	pending, err := d.repo.GetPending(ctx, d.config.BatchSize)
	if err != nil {
		d.metrics.DatabaseOperations.WithLabelValues("get_pending_notifications", "error").Inc()
		return fmt.Errorf("failed to get pending notifications: %w", err)
	}
	d.metrics.DatabaseOperations.WithLabelValues("get_pending_notifications", "success").Inc()

	for _, n := range pending {
		if n.RetryCount > 0 {
			d.metrics.NotificationRetries.WithLabelValues(string(n.Kind)).Inc()
		}
		if err := d.svc.Deliver(ctx, n); err != nil {
			d.metrics.NotificationsFailed.Inc()
			d.logger.Error(err, "Failed to deliver notification",
				"notification_id", n.ID.String(),
				"kind", string(n.Kind))
			continue
		}
		d.metrics.NotificationsSent.Inc()
	}

	return nil
}
