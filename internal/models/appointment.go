package models

import (
	"time"
)

// DateLayout is the calendar date format used by forms and storage.
const DateLayout = "2006-01-02"

// Appointment represents a scheduled medical appointment
type Appointment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Location    string `json:"location"`
	AssignedTo  string `json:"assignedTo"`
	Notes       string `json:"notes"`
	Completed   bool   `json:"completed"`
}

// AppointmentInput carries the fields of the add form.
type AppointmentInput struct {
	Title       string `json:"title" form:"title" binding:"required"`
	Description string `json:"description" form:"description"`
	Date        string `json:"date" form:"date" binding:"required"`
	Time        string `json:"time" form:"time" binding:"required,clock"`
	Location    string `json:"location" form:"location"`
	AssignedTo  string `json:"assignedTo" form:"assignedTo"`
	Notes       string `json:"notes" form:"notes"`
}

// AppointmentPatch is a partial update; nil fields are left untouched.
type AppointmentPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty" binding:"omitempty,clock"`
	Location    *string `json:"location,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// NewAppointment builds an incomplete appointment with a fresh id.
func NewAppointment(in AppointmentInput) Appointment {
	return Appointment{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		AssignedTo:  assignedOrSelf(in.AssignedTo),
		Notes:       in.Notes,
	}
}

// Patch converts a full form submission into an update.
func (in AppointmentInput) Patch() AppointmentPatch {
	assigned := assignedOrSelf(in.AssignedTo)
	return AppointmentPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Date:        &in.Date,
		Time:        &in.Time,
		Location:    &in.Location,
		AssignedTo:  &assigned,
		Notes:       &in.Notes,
	}
}

// Apply merges the patch into a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.AssignedTo != nil {
		a.AssignedTo = assignedOrSelf(*p.AssignedTo)
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
}

// StartsAt returns the appointment date-time in loc. A missing time means
// midnight; ok is false when the date cannot be parsed.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(DateLayout, a.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	if a.Time == "" {
		return day, true
	}
	h, m, err := ParseClock(a.Time)
	if err != nil {
		return day, true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), true
}
