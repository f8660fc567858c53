package models

import (
	"fmt"
	"strings"
	"time"
)

// Medication is a medicine reminder
type Medication struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Time       string `json:"time"` // HH:MM
	Duration   string `json:"duration"`
	AssignedTo string `json:"assignedTo"`
	Taken      bool   `json:"taken"`
}

// MedicationInput carries the fields of the add form.
type MedicationInput struct {
	Name       string `json:"name" form:"name" binding:"required"`
	Dosage     string `json:"dosage" form:"dosage" binding:"required"`
	Frequency  string `json:"frequency" form:"frequency" binding:"required"`
	Time       string `json:"time" form:"time" binding:"required,clock"`
	Duration   string `json:"duration" form:"duration"`
	AssignedTo string `json:"assignedTo" form:"assignedTo"`
}

// MedicationPatch is a partial update; nil fields are left untouched.
type MedicationPatch struct {
	Name       *string `json:"name,omitempty"`
	Dosage     *string `json:"dosage,omitempty"`
	Frequency  *string `json:"frequency,omitempty"`
	Time       *string `json:"time,omitempty" binding:"omitempty,clock"`
	Duration   *string `json:"duration,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
	Taken      *bool   `json:"taken,omitempty"`
}

// NewMedication builds an untaken medication with a fresh id.
func NewMedication(in MedicationInput) Medication {
	return Medication{
		ID:         NewID(),
		Name:       in.Name,
		Dosage:     in.Dosage,
		Frequency:  in.Frequency,
		Time:       in.Time,
		Duration:   in.Duration,
		AssignedTo: assignedOrSelf(in.AssignedTo),
	}
}

// Patch converts a full form submission into an update.
func (in MedicationInput) Patch() MedicationPatch {
	assigned := assignedOrSelf(in.AssignedTo)
	return MedicationPatch{
		Name:       &in.Name,
		Dosage:     &in.Dosage,
		Frequency:  &in.Frequency,
		Time:       &in.Time,
		Duration:   &in.Duration,
		AssignedTo: &assigned,
	}
}

// Apply merges the patch into m.
func (p MedicationPatch) Apply(m *Medication) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Dosage != nil {
		m.Dosage = *p.Dosage
	}
	if p.Frequency != nil {
		m.Frequency = *p.Frequency
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.AssignedTo != nil {
		m.AssignedTo = assignedOrSelf(*p.AssignedTo)
	}
	if p.Taken != nil {
		m.Taken = *p.Taken
	}
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "03:04 PM", "3:04PM", "03:04PM"}

// ParseClock parses a time-of-day and returns hours and minutes.
func ParseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid time of day %q", s)
}

// ScheduledOn returns the dose time on the calendar day of day.
func (m Medication) ScheduledOn(day time.Time) (time.Time, error) {
	h, min, err := ParseClock(m.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, min, 0, 0, day.Location()), nil
}
