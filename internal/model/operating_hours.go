package model

import (
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	WeekdaySunday    Weekday = "sunday"
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
)

var weekdayNames = map[time.Weekday]Weekday{
	time.Sunday:    WeekdaySunday,
	time.Monday:    WeekdayMonday,
	time.Tuesday:   WeekdayTuesday,
	time.Wednesday: WeekdayWednesday,
	time.Thursday:  WeekdayThursday,
	time.Friday:    WeekdayFriday,
	time.Saturday:  WeekdaySaturday,
}

// WeekdayOf resolves the weekday label for a clinic-local date.
func WeekdayOf(t time.Time) Weekday {
	return weekdayNames[t.Weekday()]
}

func (w Weekday) IsValid() bool {
	switch w {
	case WeekdaySunday, WeekdayMonday, WeekdayTuesday, WeekdayWednesday,
		WeekdayThursday, WeekdayFriday, WeekdaySaturday:
		return true
	}
	return false
}

// OperatingHours holds a clinic's open/close window for one weekday. At
// most one row exists per (clinic, weekday). A closed day has IsOpen false
// or absent time bounds.
type OperatingHours struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	DayOfWeek Weekday   `db:"day_of_week" json:"day_of_week"`
	OpenTime  *string   `db:"open_time" json:"open_time,omitempty"`
	CloseTime *string   `db:"close_time" json:"close_time,omitempty"`
	IsOpen    bool      `db:"is_open" json:"is_open"`
}

type OperatingHoursInput struct {
	DayOfWeek Weekday `json:"day_of_week" binding:"required"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsOpen    bool    `json:"is_open"`
}

// ReplaceOperatingHoursRequest replaces a clinic's full weekly schedule.
type ReplaceOperatingHoursRequest struct {
	Hours []OperatingHoursInput `json:"hours" binding:"required,dive"`
}
