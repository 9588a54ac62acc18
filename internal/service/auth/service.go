package auth

import (
	"context"

	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/internal/repository"
	"github.com/vetbook/booking-api/pkg/auth"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
	"github.com/vetbook/booking-api/pkg/security"
)

// Service issues actor tokens for registered users and clinic accounts.
type Service struct {
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, clinicRepo repository.ClinicRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo:   userRepo,
		clinicRepo: clinicRepo,
		jwtSvc:     jwtSvc,
		hasher:     hasher,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var claims *model.TokenClaims

	switch req.Scope {
	case model.ActorTypeUser:
		user, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Unauthorized(err)
		}
		if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
			return nil, apperrors.Unauthorized(err)
		}
		claims = &model.TokenClaims{ActorID: user.ID, ActorType: model.ActorTypeUser, Email: user.Email}

	case model.ActorTypeClinic:
		clinic, err := s.clinicRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Unauthorized(err)
		}
		if err := s.hasher.Compare(clinic.PasswordHash, req.Password); err != nil {
			return nil, apperrors.Unauthorized(err)
		}
		claims = &model.TokenClaims{ActorID: clinic.ID, ActorType: model.ActorTypeClinic, Email: clinic.Email}

	default:
		return nil, apperrors.Validation("unknown login scope", nil)
	}

	token, err := s.jwtSvc.GenerateToken(claims)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		Token:     token,
		ActorType: claims.ActorType,
		ActorID:   claims.ActorID,
	}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
