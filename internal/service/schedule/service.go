package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/internal/repository"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
)

const (
	// slotIntervalMinutes is the fixed grid stride. It is global, not
	// configurable per clinic or service.
	slotIntervalMinutes = 30

	timeLayout = "15:04"

	gridCacheTTL     = 5 * time.Minute
	gridCacheCleanup = 10 * time.Minute
)

// Service generates the candidate slot grid from operating hours and
// resolves it against booked appointments.
type Service struct {
	hoursRepo  repository.OperatingHoursRepository
	apptRepo   repository.AppointmentRepository
	clinicRepo repository.ClinicRepository
	grid       *cache.Cache
}

func NewService(hoursRepo repository.OperatingHoursRepository, apptRepo repository.AppointmentRepository, clinicRepo repository.ClinicRepository) *Service {
	return &Service{
		hoursRepo:  hoursRepo,
		apptRepo:   apptRepo,
		clinicRepo: clinicRepo,
		grid:       cache.New(gridCacheTTL, gridCacheCleanup),
	}
}

// GenerateSlots returns every bookable start time for the clinic on the
// given date, formatted HH:MM. A closed or unconfigured day yields an
// empty slice, not an error.
func (s *Service) GenerateSlots(ctx context.Context, clinicID uuid.UUID, date time.Time) ([]string, error) {
	day := model.WeekdayOf(date)

	key := gridKey(clinicID, day)
	if cached, found := s.grid.Get(key); found {
		return append([]string(nil), cached.([]string)...), nil
	}

	hours, err := s.hoursRepo.FindByClinicAndDay(ctx, clinicID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load operating hours: %w", err)
	}

	slots := buildGrid(hours)
	s.grid.Set(key, slots, cache.DefaultExpiration)

	return append([]string(nil), slots...), nil
}

// GetAvailableSlots returns the candidate grid minus the times of
// non-cancelled appointments on that clinic and date, optionally filtered
// to one veterinarian. The result is always a subset of the grid.
func (s *Service) GetAvailableSlots(ctx context.Context, clinicID uuid.UUID, date time.Time, veterinarianID *uuid.UUID) ([]string, error) {
	if _, err := s.clinicRepo.Get(ctx, clinicID); err != nil {
		return nil, err
	}

	grid, err := s.GenerateSlots(ctx, clinicID, date)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return grid, nil
	}

	occupied, err := s.apptRepo.FindByClinicAndDate(ctx, clinicID, date, veterinarianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked appointments: %w", err)
	}

	// Set subtraction: two appointments sharing the same time still
	// remove only one grid entry.
	taken := make(map[string]struct{}, len(occupied))
	for _, o := range occupied {
		taken[o.AppointmentDate.Format(timeLayout)] = struct{}{}
	}

	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

// ListOperatingHours returns the clinic's configured weekly schedule.
func (s *Service) ListOperatingHours(ctx context.Context, clinicID uuid.UUID) ([]*model.OperatingHours, error) {
	if _, err := s.clinicRepo.Get(ctx, clinicID); err != nil {
		return nil, err
	}
	return s.hoursRepo.FindByClinic(ctx, clinicID)
}

// ReplaceOperatingHours swaps the clinic's entire weekly schedule. Only the
// owning clinic may call it; the write is a single transaction.
func (s *Service) ReplaceOperatingHours(ctx context.Context, actor model.Actor, clinicID uuid.UUID, req *model.ReplaceOperatingHoursRequest) ([]*model.OperatingHours, error) {
	if actor.Type != model.ActorTypeClinic || actor.ID != clinicID {
		return nil, apperrors.Forbidden("only the owning clinic can change its hours", nil)
	}

	if _, err := s.clinicRepo.Get(ctx, clinicID); err != nil {
		return nil, err
	}

	rows, err := validateHours(req.Hours)
	if err != nil {
		return nil, err
	}

	if err := s.hoursRepo.ReplaceAll(ctx, clinicID, rows); err != nil {
		return nil, err
	}

	s.invalidateGrid(clinicID)

	return rows, nil
}

func validateHours(inputs []model.OperatingHoursInput) ([]*model.OperatingHours, error) {
	seen := make(map[model.Weekday]bool, len(inputs))
	rows := make([]*model.OperatingHours, 0, len(inputs))

	for _, in := range inputs {
		if !in.DayOfWeek.IsValid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown day of week %q", in.DayOfWeek), nil)
		}
		if seen[in.DayOfWeek] {
			return nil, apperrors.Validation(fmt.Sprintf("duplicate day of week %q", in.DayOfWeek), nil)
		}
		seen[in.DayOfWeek] = true

		if in.IsOpen && in.OpenTime != nil && in.CloseTime != nil {
			open, err := parseMinutes(*in.OpenTime)
			if err != nil {
				return nil, apperrors.Validation(fmt.Sprintf("invalid open_time for %s", in.DayOfWeek), err)
			}
			close, err := parseMinutes(*in.CloseTime)
			if err != nil {
				return nil, apperrors.Validation(fmt.Sprintf("invalid close_time for %s", in.DayOfWeek), err)
			}
			if open >= close {
				return nil, apperrors.Validation(fmt.Sprintf("open_time must be before close_time for %s", in.DayOfWeek), nil)
			}
		}

		rows = append(rows, &model.OperatingHours{
			DayOfWeek: in.DayOfWeek,
			OpenTime:  in.OpenTime,
			CloseTime: in.CloseTime,
			IsOpen:    in.IsOpen,
		})
	}

	return rows, nil
}

func buildGrid(hours *model.OperatingHours) []string {
	if hours == nil || !hours.IsOpen || hours.OpenTime == nil || hours.CloseTime == nil {
		return []string{}
	}

	open, err := parseMinutes(*hours.OpenTime)
	if err != nil {
		return []string{}
	}
	close, err := parseMinutes(*hours.CloseTime)
	if err != nil {
		return []string{}
	}

	slots := make([]string, 0, (close-open)/slotIntervalMinutes)
	for m := open; m < close; m += slotIntervalMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// parseMinutes converts an HH:MM wall-clock string to minutes since
// midnight.
func parseMinutes(hm string) (int, error) {
	parts := strings.SplitN(hm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hm)
	}
	return hour*60 + minute, nil
}

func gridKey(clinicID uuid.UUID, day model.Weekday) string {
	return clinicID.String() + ":" + string(day)
}

func (s *Service) invalidateGrid(clinicID uuid.UUID) {
	for _, day := range []model.Weekday{
		model.WeekdaySunday, model.WeekdayMonday, model.WeekdayTuesday,
		model.WeekdayWednesday, model.WeekdayThursday, model.WeekdayFriday,
		model.WeekdaySaturday,
	} {
		s.grid.Delete(gridKey(clinicID, day))
	}
}
