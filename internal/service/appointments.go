package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/state"
)

// Appointments is the simulated remote service for appointments
type Appointments struct {
	base
}

func NewAppointments(c *state.Container, opts Options) *Appointments {
	return &Appointments{base: newBase(c, opts, "appointment")}
}

func appointmentID(a models.Appointment) string { return a.ID }

// Fetch returns the current appointments after the simulated delay.
func (s *Appointments) Fetch(ctx context.Context) (appts []models.Appointment, err error) {
	start := time.Now()
	defer func() { s.observe("fetch", start, err) }()
	s.logger.Info("API: Fetching appointments...")

	if err = s.fetch(ctx, func(st *models.AppState) *bool { return &st.IsLoadingAppointments }); err != nil {
		s.logger.Info("API: Appointments fetch discarded", zap.Error(err))
		return nil, err
	}

	s.logger.Info("API: Appointments fetched successfully.")
	return s.container.Snapshot().Appointments, nil
}

// Add creates an incomplete appointment.
func (s *Appointments) Add(ctx context.Context, in models.AppointmentInput) (appt models.Appointment, err error) {
	start := time.Now()
	defer func() { s.observe("add", start, err) }()
	s.logger.Info("API: Adding appointment...", zap.String("title", in.Title))

	if err = s.latency.Wait(ctx); err != nil {
		return models.Appointment{}, err
	}

	appt = models.NewAppointment(in)
	err = s.container.Update(ctx, func(st *models.AppState) error {
		st.Appointments = append(st.Appointments, appt)
		st.EditingAppointmentID = ""
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info("API: Appointment added successfully.", zap.String("id", appt.ID))
	return appt, nil
}

// Update merges patch into the appointment with the given id.
func (s *Appointments) Update(ctx context.Context, id string, patch models.AppointmentPatch) (appt models.Appointment, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()
	s.logger.Info("API: Updating appointment...", zap.String("id", id))

	if err = s.latency.Wait(ctx); err != nil {
		return models.Appointment{}, err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Appointments, id, appointmentID)
		if i < 0 {
			return apperrors.NotFound("appointment", id)
		}
		patch.Apply(&st.Appointments[i])
		if patch.Completed == nil {
			st.EditingAppointmentID = ""
		}
		appt = st.Appointments[i]
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error updating appointment.", zap.String("id", id), zap.Error(err))
		return models.Appointment{}, err
	}

	s.logger.Info("API: Appointment updated successfully.", zap.String("id", id))
	return appt, nil
}

// ToggleCompleted flips the completed flag.
func (s *Appointments) ToggleCompleted(ctx context.Context, id string) (appt models.Appointment, err error) {
	start := time.Now()
	defer func() { s.observe("toggle", start, err) }()

	if err = s.latency.Wait(ctx); err != nil {
		return models.Appointment{}, err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Appointments, id, appointmentID)
		if i < 0 {
			return apperrors.NotFound("appointment", id)
		}
		st.Appointments[i].Completed = !st.Appointments[i].Completed
		appt = st.Appointments[i]
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}

// Delete removes the appointment with the given id.
func (s *Appointments) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()
	s.logger.Info("API: Deleting appointment...", zap.String("id", id))

	if err = s.latency.Wait(ctx); err != nil {
		return err
	}

	err = s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.Appointments, id, appointmentID)
		if i < 0 {
			return apperrors.NotFound("appointment", id)
		}
		st.Appointments = append(st.Appointments[:i], st.Appointments[i+1:]...)
		if st.EditingAppointmentID == id {
			st.EditingAppointmentID = ""
		}
		return nil
	})
	if err != nil {
		s.logger.Error("API: Error deleting appointment.", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("API: Appointment deleted successfully.", zap.String("id", id))
	return nil
}
