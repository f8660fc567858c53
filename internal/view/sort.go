package view

import (
	"sort"
	"time"

	"medminder/internal/models"
)

// SortMedications orders untaken before taken, then by time of day.
func SortMedications(meds []models.Medication) []models.Medication {
	out := append([]models.Medication(nil), meds...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Taken != b.Taken {
			return !a.Taken
		}
		return clockLess(a.Time, b.Time)
	})
	return out
}

// SortAppointments orders incomplete before complete, then by date and time.
func SortAppointments(appts []models.Appointment) []models.Appointment {
	out := append([]models.Appointment(nil), appts...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		at, aok := a.StartsAt(time.UTC)
		bt, bok := b.StartsAt(time.UTC)
		if aok && bok {
			return at.Before(bt)
		}
		return a.Date+a.Time < b.Date+b.Time
	})
	return out
}

// SortRecords orders records newest first.
func SortRecords(records []models.HealthRecord) []models.HealthRecord {
	out := append([]models.HealthRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aerr := time.Parse(models.DateLayout, out[i].Date)
		b, berr := time.Parse(models.DateLayout, out[j].Date)
		if aerr == nil && berr == nil {
			return a.After(b)
		}
		return out[i].Date > out[j].Date
	})
	return out
}

func clockLess(a, b string) bool {
	ah, am, aerr := models.ParseClock(a)
	bh, bm, berr := models.ParseClock(b)
	if aerr != nil || berr != nil {
		return a < b
	}
	return ah*60+am < bh*60+bm
}
