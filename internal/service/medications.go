package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/state"
)

// Medications is the simulated remote service for medicine reminders
type Medications struct {
	base
}

func NewMedications(c *state.Container, opts Options) *Medications {
	return &Medications{base: newBase(c, opts, "medication")}
}

func medicationID(m models.Medication) string { return m.ID }

// Fetch returns the current medications after the simulated delay.
func (s *Medications) Fetch(ctx context.Context) (meds []models.Medication, err error) {
	start := time.Now()
	defer func() { s.observe("fetch", start, err) }()
	s.logger.Info("API: Fetching medications...")

	if err = s.fetch(ctx, func(st *models.AppState) *bool { return &st.IsLoadingMedications }); err != nil {
		s.logger.Info("API: Medications fetch discarded", zap.Error(err))
		return nil, err
	}

	s.logger.Info("API: Medications fetched successfully.")
	return s.container.Snapshot().Medications, nil
}

// Add creates an untaken medication.
func (s *Medications) Add(ctx context.Context, in models.MedicationInput) (med models.Medication, err error) {
	start := time.Now()
	defer func() { s.observe("add", start, err) }()
	s.logger.Info("API: Adding medication...", zap.String("name", in.Name))

	if err = checkClock(in.Time); err != nil {
		return models.Medication{}, err
	}
	if err = s.latency.Wait(ctx); err != nil {
		return models.Medication{}, err
	}

	med = models.NewMedication(in)
	err = s.container.Update(ctx, func(st *models.AppState) error {
		st.Medications = append(st.Medications, med)
		st.EditingMedicationID = ""
		return nil
	})
	if err != nil {
		return models.Medication{}, err
	}

	s.logger.Info("API: Medication added successfully.", zap.String("id", med.ID))
	return med, nil
}

// Update merges patch into the medication with the given id.
func (s *Medications) Update(ctx context.Context, id string, patch models.MedicationPatch) (med models.Medication, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()
	s.logger.Info("API: Updating medication...", zap.String("id", id))

	if patch.Time != nil {
		if err = checkClock(*patch.Time); err != nil {
			return models.Medication{}, err
		}
	}
	if err = s.latency.Wait(ctx); err != nil {
		return models.Medication{}, err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Medications, id, medicationID)
		if i < 0 {
			return apperrors.NotFound("medication", id)
		}
		patch.Apply(&st.Medications[i])
		if patch.Taken == nil {
			st.EditingMedicationID = ""
		}
		med = st.Medications[i]
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error updating medication.", zap.String("id", id), zap.Error(err))
		return models.Medication{}, err
	}

	s.logger.Info("API: Medication updated successfully.", zap.String("id", id))
	return med, nil
}

// ToggleTaken flips the taken flag.
func (s *Medications) ToggleTaken(ctx context.Context, id string) (med models.Medication, err error) {
	start := time.Now()
	defer func() { s.observe("toggle", start, err) }()

	if err = s.latency.Wait(ctx); err != nil {
		return models.Medication{}, err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Medications, id, medicationID)
		if i < 0 {
			return apperrors.NotFound("medication", id)
		}
		st.Medications[i].Taken = !st.Medications[i].Taken
		med = st.Medications[i]
		return nil
	})
	if err != nil {
		return models.Medication{}, err
	}
	return med, nil
}

// Delete removes the medication with the given id.
func (s *Medications) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()
	s.logger.Info("API: Deleting medication...", zap.String("id", id))

	if err = s.latency.Wait(ctx); err != nil {
		return err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Medications, id, medicationID)
		if i < 0 {
			return apperrors.NotFound("medication", id)
		}
		st.Medications = append(st.Medications[:i], st.Medications[i+1:]...)
		if st.EditingMedicationID == id {
			st.EditingMedicationID = ""
		}
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error deleting medication.", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("API: Medication deleted successfully.", zap.String("id", id))
	return nil
}
