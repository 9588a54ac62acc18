package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/internal/repository"
	"github.com/vetbook/booking-api/internal/service/notification"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
	"github.com/vetbook/booking-api/pkg/logger"
)

// Service owns the appointment lifecycle: creation on both booking paths,
// partial updates guarded by the status transition table, cancellation and
// hard deletion. Notifications are best-effort side effects.
type Service struct {
	repo       repository.AppointmentRepository
	clinicRepo repository.ClinicRepository
	petRepo    repository.PetRepository
	userRepo   repository.UserRepository
	vetRepo    repository.VeterinarianRepository
	notifier   notification.Notifier
	logger     *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	clinicRepo repository.ClinicRepository,
	petRepo repository.PetRepository,
	userRepo repository.UserRepository,
	vetRepo repository.VeterinarianRepository,
	notifier notification.Notifier,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		clinicRepo: clinicRepo,
		petRepo:    petRepo,
		userRepo:   userRepo,
		vetRepo:    vetRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// Create books an appointment for a registered user's pet. The slot is not
// re-checked against availability here; the unique index on
// (clinic, veterinarian, date) is what stops concurrent double-booking.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if actor.Type != model.ActorTypeUser {
		return nil, apperrors.Forbidden("only registered users can book this way", nil)
	}

	pet, err := s.petRepo.Get(ctx, req.PetID)
	if err != nil {
		return nil, err
	}
	if pet.UserID != actor.ID {
		return nil, apperrors.Forbidden("pet does not belong to you", nil)
	}

	clinic, err := s.clinicRepo.Get(ctx, req.ClinicID)
	if err != nil {
		return nil, err
	}

	if _, err := s.clinicRepo.GetService(ctx, req.ServiceID); err != nil {
		return nil, err
	}

	if err := s.checkVeterinarian(ctx, req.VeterinarianID, req.ClinicID); err != nil {
		return nil, err
	}

	userID := actor.ID
	petID := req.PetID
	apt := &model.Appointment{
		ClinicID:        req.ClinicID,
		ServiceID:       req.ServiceID,
		VeterinarianID:  req.VeterinarianID,
		UserID:          &userID,
		PetID:           &petID,
		AppointmentDate: req.AppointmentDate,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.AppointmentStatusPending,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.notify(ctx, clinic.ID, model.NotificationKindAppointment,
		"New appointment request",
		fmt.Sprintf("%s has requested an appointment for %s on %s.",
			s.actorName(ctx, actor.ID), pet.Name,
			apt.AppointmentDate.Format("2006-01-02 15:04")),
		model.JSONMap{
			"appointment_id": apt.ID.String(),
			"user_id":        actor.ID.String(),
			"pet_id":         pet.ID.String(),
		})

	return apt, nil
}

// CreateWalkIn books an appointment on behalf of an unregistered client.
// Only the owning clinic can do this, and the service must be its own.
func (s *Service) CreateWalkIn(ctx context.Context, actor model.Actor, clinicID uuid.UUID, req *model.CreateWalkInRequest) (*model.Appointment, error) {
	if actor.Type != model.ActorTypeClinic || actor.ID != clinicID {
		return nil, apperrors.Forbidden("only the owning clinic can create walk-in appointments", nil)
	}

	clinic, err := s.clinicRepo.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	svc, err := s.clinicRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.ClinicID != clinicID {
		return nil, apperrors.NotFound("service", nil)
	}

	if err := s.checkVeterinarian(ctx, req.VeterinarianID, clinicID); err != nil {
		return nil, err
	}

	clientName := req.ClientName
	clientPhone := req.ClientPhone
	petName := req.PetName
	petType := req.PetType
	apt := &model.Appointment{
		ClinicID:        clinicID,
		ServiceID:       req.ServiceID,
		VeterinarianID:  req.VeterinarianID,
		ClientName:      &clientName,
		ClientPhone:     &clientPhone,
		PetName:         &petName,
		PetType:         &petType,
		AppointmentDate: req.AppointmentDate,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.AppointmentStatusPending,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.notify(ctx, clinic.ID, model.NotificationKindAppointment,
		"New walk-in appointment",
		fmt.Sprintf("Walk-in appointment for %s (%s) on %s.",
			petName, clientName,
			apt.AppointmentDate.Format("2006-01-02 15:04")),
		model.JSONMap{
			"appointment_id": apt.ID.String(),
			"client_name":    clientName,
		})

	return apt, nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(actor, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// List returns appointments scoped to what the actor may see: a user sees
// their own bookings, a clinic sees its calendar.
func (s *Service) List(ctx context.Context, actor model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	switch actor.Type {
	case model.ActorTypeUser:
		userID := actor.ID
		filters.UserID = &userID
	case model.ActorTypeClinic:
		filters.ClinicID = actor.ID
	default:
		return nil, apperrors.Forbidden("unknown actor", nil)
	}
	return s.repo.List(ctx, filters)
}

// Update applies a partial update. A status change must follow the
// transition table, and a move into confirmed fires the confirmation
// notification exactly once.
func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(actor, apt); err != nil {
		return nil, err
	}

	if req.ServiceID != nil {
		if _, err := s.clinicRepo.GetService(ctx, *req.ServiceID); err != nil {
			return nil, err
		}
		apt.ServiceID = *req.ServiceID
	}

	if req.VeterinarianID != nil {
		if err := s.checkVeterinarian(ctx, req.VeterinarianID, apt.ClinicID); err != nil {
			return nil, err
		}
		apt.VeterinarianID = req.VeterinarianID
	}

	if req.AppointmentDate != nil {
		apt.AppointmentDate = *req.AppointmentDate
	}

	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if req.PaymentMethod != nil {
		apt.PaymentMethod = req.PaymentMethod
	}

	confirmed := false
	if req.Status != nil && *req.Status != apt.Status {
		if !req.Status.IsValid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", *req.Status), nil)
		}
		if !apt.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.Validation(
				fmt.Sprintf("cannot transition appointment from %s to %s", apt.Status, *req.Status), nil)
		}
		confirmed = *req.Status == model.AppointmentStatusConfirmed
		apt.Status = *req.Status
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	if confirmed {
		s.notify(ctx, apt.ClinicID, model.NotificationKindConfirmation,
			"Appointment confirmed",
			fmt.Sprintf("Appointment on %s has been confirmed.",
				apt.AppointmentDate.Format("2006-01-02 15:04")),
			model.JSONMap{
				"appointment_id": apt.ID.String(),
			})
	}

	return apt, nil
}

// Cancel is an update to cancelled status. The slot becomes visible as
// free on the next availability read; there is no rebooking lock.
func (s *Service) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	status := model.AppointmentStatusCancelled
	return s.Update(ctx, actor, id, &model.UpdateAppointmentRequest{Status: &status})
}

// Delete removes the row regardless of status. Distinct from cancellation.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(actor, apt); err != nil {
		return err
	}
	return s.repo.Delete(ctx, apt.ID)
}

func (s *Service) checkOwnership(actor model.Actor, apt *model.Appointment) error {
	switch actor.Type {
	case model.ActorTypeClinic:
		if apt.ClinicID == actor.ID {
			return nil
		}
	case model.ActorTypeUser:
		if apt.UserID != nil && *apt.UserID == actor.ID {
			return nil
		}
	}
	return apperrors.Forbidden("appointment does not belong to you", nil)
}

// checkVeterinarian verifies the vet exists and belongs to the clinic. A
// vet from another clinic reads as not found rather than leaking a
// cross-clinic booking.
func (s *Service) checkVeterinarian(ctx context.Context, vetID *uuid.UUID, clinicID uuid.UUID) error {
	if vetID == nil {
		return nil
	}
	vet, err := s.vetRepo.Get(ctx, *vetID)
	if err != nil {
		return err
	}
	if vet.ClinicID != clinicID {
		return apperrors.NotFound("veterinarian", nil)
	}
	return nil
}

// notify fires a best-effort notification. Failures are logged and never
// fail the owning operation.
func (s *Service) notify(ctx context.Context, clinicID uuid.UUID, kind model.NotificationKind, title, message string, metadata model.JSONMap) {
	if err := s.notifier.Notify(ctx, clinicID, kind, title, message, metadata); err != nil {
		s.logger.Error(err, "failed to send notification",
			"clinic_id", clinicID.String(),
			"kind", string(kind))
	}
}

func (s *Service) actorName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return "A client"
	}
	return user.Name
}
