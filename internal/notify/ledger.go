package notify

import (
	"fmt"
	"time"

	"medminder/internal/models"
)

// MedicationKey identifies one dose of one medication on one day.
func MedicationKey(id string, day time.Time, hour, minute int) string {
	return fmt.Sprintf("med-%s-%s-%02d:%02d", id, day.Format(models.DateLayout), hour, minute)
}

// AppointmentKey identifies an appointment; it has no date so it fires once.
func AppointmentKey(id string) string {
	return "appt-" + id
}

// firedWithin reports whether key was fired less than window ago.
func firedWithin(log map[string]int64, key string, now time.Time, window time.Duration) bool {
	last, ok := log[key]
	if !ok {
		return false
	}
	return now.Sub(time.UnixMilli(last)) < window
}

// firedEver reports whether key has ever been fired.
func firedEver(log map[string]int64, key string) bool {
	_, ok := log[key]
	return ok
}
