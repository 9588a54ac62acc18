package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetbook/booking-api/internal/model"
	apperrors "github.com/vetbook/booking-api/pkg/errors"
)

type fakeHoursRepo struct {
	byDay       map[model.Weekday]*model.OperatingHours
	replaced    []*model.OperatingHours
	replaceErr  error
	findDayErr  error
	findAllRows []*model.OperatingHours
}

func (f *fakeHoursRepo) FindByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.OperatingHours, error) {
	return f.findAllRows, nil
}

func (f *fakeHoursRepo) FindByClinicAndDay(ctx context.Context, clinicID uuid.UUID, day model.Weekday) (*model.OperatingHours, error) {
	if f.findDayErr != nil {
		return nil, f.findDayErr
	}
	return f.byDay[day], nil
}

func (f *fakeHoursRepo) ReplaceAll(ctx context.Context, clinicID uuid.UUID, hours []*model.OperatingHours) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = hours
	return nil
}

type fakeAppointmentRepo struct {
	occupied []model.OccupiedSlot
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NotFound("appointment", nil)
}
func (f *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) FindByClinicAndDate(ctx context.Context, clinicID uuid.UUID, date time.Time, veterinarianID *uuid.UUID) ([]model.OccupiedSlot, error) {
	return f.occupied, nil
}

type fakeClinicRepo struct {
	clinics map[uuid.UUID]*model.Clinic
}

func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	if c, ok := f.clinics[id]; ok {
		return c, nil
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

func strPtr(s string) *string { return &s }

// mondayDate is a date known to fall on a Monday.
var mondayDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestService(hours *fakeHoursRepo, appts *fakeAppointmentRepo, clinicID uuid.UUID) *Service {
	clinics := &fakeClinicRepo{clinics: map[uuid.UUID]*model.Clinic{
		clinicID: {Base: model.Base{ID: clinicID}, Name: "Test Clinic"},
	}}
	return NewService(hours, appts, clinics)
}

func TestGenerateSlots(t *testing.T) {
	clinicID := uuid.New()

	t.Run("open day produces half hour grid", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				ClinicID:  clinicID,
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("09:00"),
				CloseTime: strPtr("12:00"),
				IsOpen:    true,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		slots, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)
	})

	t.Run("close time is exclusive", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("08:00"),
				CloseTime: strPtr("10:00"),
				IsOpen:    true,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		slots, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, slots)
		assert.NotContains(t, slots, "10:00")
	})

	t.Run("closed day yields empty grid", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("09:00"),
				CloseTime: strPtr("17:00"),
				IsOpen:    false,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		slots, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("unconfigured day yields empty grid", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		slots, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("missing time bounds yield empty grid", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				IsOpen:    true,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		slots, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("grid is cached per clinic and weekday", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("09:00"),
				CloseTime: strPtr("10:00"),
				IsOpen:    true,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		first, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)

		// Changing the backing store has no effect until invalidation.
		hours.byDay[model.WeekdayMonday].CloseTime = strPtr("18:00")

		second, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGetAvailableSlots(t *testing.T) {
	clinicID := uuid.New()
	openHours := func() *fakeHoursRepo {
		return &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("09:00"),
				CloseTime: strPtr("12:00"),
				IsOpen:    true,
			},
		}}
	}

	t.Run("booked times are removed", func(t *testing.T) {
		appts := &fakeAppointmentRepo{occupied: []model.OccupiedSlot{
			{AppointmentDate: mondayDate.Add(9*time.Hour + 30*time.Minute), Status: model.AppointmentStatusPending},
			{AppointmentDate: mondayDate.Add(11 * time.Hour), Status: model.AppointmentStatusConfirmed},
		}}
		svc := newTestService(openHours(), appts, clinicID)

		slots, err := svc.GetAvailableSlots(context.Background(), clinicID, mondayDate, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:30"}, slots)
	})

	t.Run("result is a subset of the grid", func(t *testing.T) {
		// An appointment at a time that never was a grid slot must not
		// add anything.
		appts := &fakeAppointmentRepo{occupied: []model.OccupiedSlot{
			{AppointmentDate: mondayDate.Add(9*time.Hour + 15*time.Minute)},
		}}
		svc := newTestService(openHours(), appts, clinicID)

		slots, err := svc.GetAvailableSlots(context.Background(), clinicID, mondayDate, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)
	})

	t.Run("duplicate occupied times remove one slot", func(t *testing.T) {
		at := mondayDate.Add(10 * time.Hour)
		appts := &fakeAppointmentRepo{occupied: []model.OccupiedSlot{
			{AppointmentDate: at},
			{AppointmentDate: at},
		}}
		svc := newTestService(openHours(), appts, clinicID)

		slots, err := svc.GetAvailableSlots(context.Background(), clinicID, mondayDate, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, slots)
	})

	t.Run("closed day returns empty without consulting bookings", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{}}
		appts := &fakeAppointmentRepo{occupied: []model.OccupiedSlot{
			{AppointmentDate: mondayDate.Add(10 * time.Hour)},
		}}
		svc := newTestService(hours, appts, clinicID)

		slots, err := svc.GetAvailableSlots(context.Background(), clinicID, mondayDate, nil)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("unknown clinic returns not found", func(t *testing.T) {
		svc := newTestService(openHours(), &fakeAppointmentRepo{}, clinicID)

		_, err := svc.GetAvailableSlots(context.Background(), uuid.New(), mondayDate, nil)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestReplaceOperatingHours(t *testing.T) {
	clinicID := uuid.New()
	clinicActor := model.Actor{Type: model.ActorTypeClinic, ID: clinicID}

	valid := func() *model.ReplaceOperatingHoursRequest {
		return &model.ReplaceOperatingHoursRequest{
			Hours: []model.OperatingHoursInput{
				{DayOfWeek: model.WeekdayMonday, OpenTime: strPtr("09:00"), CloseTime: strPtr("17:00"), IsOpen: true},
				{DayOfWeek: model.WeekdaySunday, IsOpen: false},
			},
		}
	}

	t.Run("owning clinic replaces schedule", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		rows, err := svc.ReplaceOperatingHours(context.Background(), clinicActor, clinicID, valid())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Len(t, hours.replaced, 2)
	})

	t.Run("user actor is rejected", func(t *testing.T) {
		svc := newTestService(&fakeHoursRepo{}, &fakeAppointmentRepo{}, clinicID)

		_, err := svc.ReplaceOperatingHours(context.Background(),
			model.Actor{Type: model.ActorTypeUser, ID: uuid.New()}, clinicID, valid())
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("another clinic is rejected", func(t *testing.T) {
		svc := newTestService(&fakeHoursRepo{}, &fakeAppointmentRepo{}, clinicID)

		_, err := svc.ReplaceOperatingHours(context.Background(),
			model.Actor{Type: model.ActorTypeClinic, ID: uuid.New()}, clinicID, valid())
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("duplicate weekday is rejected", func(t *testing.T) {
		svc := newTestService(&fakeHoursRepo{}, &fakeAppointmentRepo{}, clinicID)

		req := &model.ReplaceOperatingHoursRequest{
			Hours: []model.OperatingHoursInput{
				{DayOfWeek: model.WeekdayMonday, OpenTime: strPtr("09:00"), CloseTime: strPtr("17:00"), IsOpen: true},
				{DayOfWeek: model.WeekdayMonday, OpenTime: strPtr("10:00"), CloseTime: strPtr("18:00"), IsOpen: true},
			},
		}
		_, err := svc.ReplaceOperatingHours(context.Background(), clinicActor, clinicID, req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("open after close is rejected", func(t *testing.T) {
		svc := newTestService(&fakeHoursRepo{}, &fakeAppointmentRepo{}, clinicID)

		req := &model.ReplaceOperatingHoursRequest{
			Hours: []model.OperatingHoursInput{
				{DayOfWeek: model.WeekdayMonday, OpenTime: strPtr("17:00"), CloseTime: strPtr("09:00"), IsOpen: true},
			},
		}
		_, err := svc.ReplaceOperatingHours(context.Background(), clinicActor, clinicID, req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown weekday is rejected", func(t *testing.T) {
		svc := newTestService(&fakeHoursRepo{}, &fakeAppointmentRepo{}, clinicID)

		req := &model.ReplaceOperatingHoursRequest{
			Hours: []model.OperatingHoursInput{
				{DayOfWeek: model.Weekday("funday"), IsOpen: false},
			},
		}
		_, err := svc.ReplaceOperatingHours(context.Background(), clinicActor, clinicID, req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("replacement invalidates the cached grid", func(t *testing.T) {
		hours := &fakeHoursRepo{byDay: map[model.Weekday]*model.OperatingHours{
			model.WeekdayMonday: {
				DayOfWeek: model.WeekdayMonday,
				OpenTime:  strPtr("09:00"),
				CloseTime: strPtr("10:00"),
				IsOpen:    true,
			},
		}}
		svc := newTestService(hours, &fakeAppointmentRepo{}, clinicID)

		before, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Len(t, before, 2)

		hours.byDay[model.WeekdayMonday].CloseTime = strPtr("11:00")
		_, err = svc.ReplaceOperatingHours(context.Background(), clinicActor, clinicID, valid())
		require.NoError(t, err)

		after, err := svc.GenerateSlots(context.Background(), clinicID, mondayDate)
		require.NoError(t, err)
		assert.Len(t, after, 4)
	})
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMinutes(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
