package notification

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetbook/booking-api/internal/model"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
	"github.com/vetbook/booking-api/pkg/logger"
)

type fakeNotificationRepo struct {
	created []*model.Notification
	updated []*model.Notification
}

// Create snapshots the row because Notify hands the same struct to an
// asynchronous delivery goroutine.
func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	cp := *n
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, n *model.Notification) error {
	cp := *n
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeNotificationRepo) GetPending(ctx context.Context, limit int) ([]*model.Notification, error) {
	return nil, nil
}

type fakeClinicRepo struct {
	clinic *model.Clinic
}

func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	if f.clinic != nil && f.clinic.ID == id {
		return f.clinic, nil
	}
	return nil, apperrors.NotFound("clinic", nil)
}
func (f *fakeClinicRepo) GetByEmail(ctx context.Context, email string) (*model.Clinic, error) {
	return nil, apperrors.NotFound("clinic", nil)
}
func (f *fakeClinicRepo) GetService(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	return nil, apperrors.NotFound("service", nil)
}
func (f *fakeClinicRepo) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	return nil, nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendCustom(ctx context.Context, to, subject, content string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}
func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}
func (f *fakeBroker) Close() error { return nil }

func newTestService(repo *fakeNotificationRepo, mail *fakeEmail, broker *fakeBroker) *Service {
	clinicID := uuid.MustParse("7b8c2f00-0000-0000-0000-000000000001")
	clinics := &fakeClinicRepo{clinic: &model.Clinic{
		Base:  model.Base{ID: clinicID},
		Name:  "Happy Paws",
		Email: "desk@happypaws.example",
	}}
	testLogger := logger.NewLogger(&logger.Config{Output: io.Discard})
	return NewService(repo, clinics, mail, broker, testLogger)
}

func TestDeliver(t *testing.T) {
	notification := func() *model.Notification {
		return &model.Notification{
			Base:      model.Base{ID: uuid.New()},
			ClinicID:  uuid.New(),
			Kind:      model.NotificationKindAppointment,
			Title:     "New appointment request",
			Message:   "Rex at 10:00",
			Recipient: "desk@happypaws.example",
			Status:    model.NotificationStatusProcessing,
		}
	}

	t.Run("success marks sent and publishes", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		mail := &fakeEmail{}
		broker := &fakeBroker{}
		svc := newTestService(repo, mail, broker)

		n := notification()
		err := svc.Deliver(context.Background(), n)
		require.NoError(t, err)

		assert.Equal(t, model.NotificationStatusSent, n.Status)
		assert.NotNil(t, n.SentAt)
		assert.Equal(t, []string{"desk@happypaws.example"}, mail.sent)
		assert.Equal(t, []string{"notifications"}, broker.published)
		require.Len(t, repo.updated, 1)
	})

	t.Run("email failure schedules a retry with backoff", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		mail := &fakeEmail{err: errors.New("smtp down")}
		svc := newTestService(repo, mail, &fakeBroker{})

		n := notification()
		err := svc.Deliver(context.Background(), n)
		require.Error(t, err)

		assert.Equal(t, model.NotificationStatusRetrying, n.Status)
		assert.Equal(t, 1, n.RetryCount)
		require.NotNil(t, n.NextRetryAt)
		require.NotNil(t, n.LastError)
		assert.Equal(t, "smtp down", *n.LastError)
	})

	t.Run("exhausted retries mark failed", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		mail := &fakeEmail{err: errors.New("smtp down")}
		svc := newTestService(repo, mail, &fakeBroker{})

		n := notification()
		n.RetryCount = 2

		err := svc.Deliver(context.Background(), n)
		require.Error(t, err)

		assert.Equal(t, model.NotificationStatusFailed, n.Status)
		assert.Equal(t, 3, n.RetryCount)
		assert.Nil(t, n.NextRetryAt)
	})

	t.Run("broker failure does not fail delivery", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		mail := &fakeEmail{}
		broker := &fakeBroker{err: errors.New("redis down")}
		svc := newTestService(repo, mail, broker)

		n := notification()
		err := svc.Deliver(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, model.NotificationStatusSent, n.Status)
	})
}

func TestNotify(t *testing.T) {
	t.Run("persists a row addressed to the clinic", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := newTestService(repo, &fakeEmail{}, &fakeBroker{})
		clinicID := uuid.MustParse("7b8c2f00-0000-0000-0000-000000000001")

		err := svc.Notify(context.Background(), clinicID, model.NotificationKindAppointment,
			"New appointment request", "Rex at 10:00", model.JSONMap{"pet": "Rex"})
		require.NoError(t, err)

		require.Len(t, repo.created, 1)
		created := repo.created[0]
		assert.Equal(t, "desk@happypaws.example", created.Recipient)
	})

	t.Run("row is created already claimed so the worker cannot race it", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := newTestService(repo, &fakeEmail{}, &fakeBroker{})
		clinicID := uuid.MustParse("7b8c2f00-0000-0000-0000-000000000001")

		err := svc.Notify(context.Background(), clinicID, model.NotificationKindAppointment,
			"New appointment request", "Rex at 10:00", nil)
		require.NoError(t, err)

		require.Len(t, repo.created, 1)
		assert.Equal(t, model.NotificationStatusProcessing, repo.created[0].Status,
			"a pending row would be visible to a concurrent dispatcher poll and get delivered twice")
	})

	t.Run("unknown clinic fails", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := newTestService(repo, &fakeEmail{}, &fakeBroker{})

		err := svc.Notify(context.Background(), uuid.New(), model.NotificationKindAppointment,
			"title", "message", nil)
		require.Error(t, err)
		assert.Empty(t, repo.created)
	})
}
