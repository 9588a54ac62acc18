package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/pkg/auth"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
	"github.com/vetbook/booking-api/pkg/security"
)

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, apperrors.NotFound("user", nil)
}

type fakeClinicRepo struct {
	clinic *model.Clinic
}

func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return nil, apperrors.NotFound("clinic", nil)
}
func (f *fakeClinicRepo) GetByEmail(ctx context.Context, email string) (*model.Clinic, error) {
	if f.clinic != nil && f.clinic.Email == email {
		return f.clinic, nil
	}
	return nil, apperrors.NotFound("clinic", nil)
}
func (f *fakeClinicRepo) GetService(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	return nil, apperrors.NotFound("service", nil)
}
func (f *fakeClinicRepo) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	return nil, nil
}

func statusOf(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return 0
}

func newTestService(t *testing.T) (*Service, *model.User, *model.Clinic) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	userHash, err := hasher.Hash("user-password")
	require.NoError(t, err)
	clinicHash, err := hasher.Hash("clinic-password")
	require.NoError(t, err)

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        "dana@example.com",
		PasswordHash: userHash,
		Name:         "Dana",
	}
	clinic := &model.Clinic{
		Base:         model.Base{ID: uuid.New()},
		Email:        "desk@happypaws.example",
		PasswordHash: clinicHash,
		Name:         "Happy Paws",
	}

	jwtSvc := auth.NewJWTService("test-secret", 1)
	svc := NewService(&fakeUserRepo{user: user}, &fakeClinicRepo{clinic: clinic}, jwtSvc, hasher)
	return svc, user, clinic
}

func TestLogin(t *testing.T) {
	t.Run("user scope issues a user token", func(t *testing.T) {
		svc, user, _ := newTestService(t)

		resp, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "dana@example.com",
			Password: "user-password",
			Scope:    model.ActorTypeUser,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ActorTypeUser, resp.ActorType)
		assert.Equal(t, user.ID, resp.ActorID)

		claims, err := svc.ValidateToken(context.Background(), resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.ActorID)
		assert.Equal(t, model.ActorTypeUser, claims.ActorType)
	})

	t.Run("clinic scope issues a clinic token", func(t *testing.T) {
		svc, _, clinic := newTestService(t)

		resp, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "desk@happypaws.example",
			Password: "clinic-password",
			Scope:    model.ActorTypeClinic,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ActorTypeClinic, resp.ActorType)
		assert.Equal(t, clinic.ID, resp.ActorID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "dana@example.com",
			Password: "wrong-password",
			Scope:    model.ActorTypeUser,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "nobody@example.com",
			Password: "user-password",
			Scope:    model.ActorTypeUser,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})

	t.Run("cross scope login fails", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		// A clinic email under user scope must not authenticate.
		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "desk@happypaws.example",
			Password: "clinic-password",
			Scope:    model.ActorTypeUser,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})

	t.Run("unknown scope is a validation error", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "dana@example.com",
			Password: "user-password",
			Scope:    model.ActorType("admin"),
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.ValidateToken(context.Background(), "not.a.token")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})
}
