package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/state"
	"medminder/internal/store"
)

type testEnv struct {
	container *state.Container
	states    *store.StateStore
	meds      *Medications
	family    *FamilyMembers
	appts     *Appointments
	records   *Records
}

func newTestEnv(t *testing.T, latency time.Duration) *testEnv {
	t.Helper()
	backend, err := store.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	logger, _ := zap.NewDevelopment()
	states := store.NewStateStore(backend)
	c := state.New(states, "u1", nil, logger)
	opts := Options{Latency: latency, Logger: logger, Metrics: metrics.New()}

	return &testEnv{
		container: c,
		states:    states,
		meds:      NewMedications(c, opts),
		family:    NewFamilyMembers(c, opts),
		appts:     NewAppointments(c, opts),
		records:   NewRecords(c, opts),
	}
}

func TestLatency_WaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Latency(time.Hour).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, Latency(0).Wait(context.Background()))
}

func TestMedications_AddThenFetch(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	med, err := env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Dosage: "1 tablet", Frequency: "daily", Time: "08:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, med.ID)
	assert.False(t, med.Taken)
	assert.Equal(t, models.AssignedToSelf, med.AssignedTo)

	meds, err := env.meds.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, med, meds[0])

	// the add was persisted
	loaded, err := env.states.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Medication{med}, loaded.Medications)
}

func TestMedications_UnknownIDLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	med, err := env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "08:00"})
	require.NoError(t, err)
	before := env.container.Snapshot()

	name := "Ibuprofen"
	_, err = env.meds.Update(ctx, "missing", models.MedicationPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.meds.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.meds.ToggleTaken(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, before.Medications, env.container.Snapshot().Medications)
	assert.Equal(t, "Aspirin", env.container.Snapshot().Medications[0].Name)
	assert.Equal(t, med.ID, env.container.Snapshot().Medications[0].ID)
}

func TestMedications_RejectsInvalidTime(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	_, err := env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "soon"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, env.container.Snapshot().Medications)

	med, err := env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "08:00"})
	require.NoError(t, err)
	later := "later"
	_, err = env.meds.Update(ctx, med.ID, models.MedicationPatch{Time: &later})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "08:00", env.container.Snapshot().Medications[0].Time)
}

func TestAppointments_UnknownIDLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	_, err := env.appts.Add(ctx, models.AppointmentInput{Title: "Dentist", Date: "2026-02-03", Time: "11:00"})
	require.NoError(t, err)
	before := env.container.Snapshot()

	title := "Surgeon"
	_, err = env.appts.Update(ctx, "missing", models.AppointmentPatch{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.appts.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.appts.ToggleCompleted(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, before.Appointments, env.container.Snapshot().Appointments)
	loaded, err := env.states.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Appointments, loaded.Appointments)
}

func TestFamily_UnknownIDLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	member, err := env.family.Add(ctx, models.FamilyMemberInput{Name: "Ana"})
	require.NoError(t, err)
	_, err = env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "08:00", AssignedTo: member.ID})
	require.NoError(t, err)
	before := env.container.Snapshot()

	name := "Eva"
	_, err = env.family.Update(ctx, "missing", models.FamilyMemberPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.family.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	after := env.container.Snapshot()
	assert.Equal(t, before.FamilyMembers, after.FamilyMembers)
	assert.Equal(t, before.Medications, after.Medications)
}

func TestRecords_UnknownIDLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	upload, err := env.records.Ingest("note.txt", "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	_, err = env.records.Add(ctx, models.HealthRecordInput{Title: "Note", RecordType: models.RecordTypeOther, Date: "2026-01-01"}, upload)
	require.NoError(t, err)
	before := env.container.Snapshot()

	assert.ErrorIs(t, env.records.Delete(ctx, "missing"), apperrors.ErrNotFound)
	_, err = env.records.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, before.HealthRecords, env.container.Snapshot().HealthRecords)
}

func TestMedications_UpdateToggleDelete(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	med, err := env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "08:00"})
	require.NoError(t, err)
	env.container.StartEdit(models.EditMedication, med.ID)

	updated, err := env.meds.Update(ctx, med.ID, models.MedicationInput{Name: "Aspirin 100", Time: "09:00"}.Patch())
	require.NoError(t, err)
	assert.Equal(t, "Aspirin 100", updated.Name)
	assert.Equal(t, "09:00", updated.Time)
	assert.Empty(t, env.container.Snapshot().EditingMedicationID)

	toggled, err := env.meds.ToggleTaken(ctx, med.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Taken)

	require.NoError(t, env.meds.Delete(ctx, med.ID))
	assert.Empty(t, env.container.Snapshot().Medications)
}

func TestFetch_SetsLoadingWhilePending(t *testing.T) {
	env := newTestEnv(t, 200*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := env.appts.Fetch(context.Background())
		done <- err
	}()

	assert.Eventually(t, func() bool {
		return env.container.Snapshot().IsLoadingAppointments
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, <-done)
	assert.False(t, env.container.Snapshot().IsLoadingAppointments)
}

func TestFetch_DiscardsResultAfterNavigation(t *testing.T) {
	env := newTestEnv(t, 200*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := env.meds.Fetch(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return env.container.Snapshot().IsLoadingMedications
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, env.container.Navigate(context.Background(), models.ViewFamily))

	err := <-done
	assert.ErrorIs(t, err, apperrors.ErrStale)
	assert.False(t, env.container.Snapshot().IsLoadingMedications)
}

func TestFamily_AddAssignsContactIDs(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	member, err := env.family.Add(ctx, models.FamilyMemberInput{
		Name: "Ana",
		EmergencyContacts: []models.EmergencyContact{
			{Name: "Luis", Phone: "555", Relationship: "brother"},
		},
	})
	require.NoError(t, err)
	require.Len(t, member.EmergencyContacts, 1)
	contactID := member.EmergencyContacts[0].ID
	assert.NotEmpty(t, contactID)

	patch := models.FamilyMemberInput{
		Name: "Ana",
		EmergencyContacts: []models.EmergencyContact{
			{ID: contactID, Name: "Luis", Phone: "556", Relationship: "brother"},
			{Name: "Eva", Phone: "557", Relationship: "sister"},
		},
	}.Patch()
	updated, err := env.family.Update(ctx, member.ID, patch)
	require.NoError(t, err)
	require.Len(t, updated.EmergencyContacts, 2)
	assert.Equal(t, contactID, updated.EmergencyContacts[0].ID)
	assert.Equal(t, "556", updated.EmergencyContacts[0].Phone)
	assert.NotEmpty(t, updated.EmergencyContacts[1].ID)
}

func TestFamily_DeleteCascadesToSelf(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	member, err := env.family.Add(ctx, models.FamilyMemberInput{Name: "Ana"})
	require.NoError(t, err)
	other, err := env.family.Add(ctx, models.FamilyMemberInput{Name: "Eva"})
	require.NoError(t, err)

	_, err = env.meds.Add(ctx, models.MedicationInput{Name: "Aspirin", Time: "08:00", AssignedTo: member.ID})
	require.NoError(t, err)
	_, err = env.meds.Add(ctx, models.MedicationInput{Name: "Zinc", Time: "09:00", AssignedTo: other.ID})
	require.NoError(t, err)
	_, err = env.appts.Add(ctx, models.AppointmentInput{Title: "Checkup", Date: "2026-01-02", Time: "10:00", AssignedTo: member.ID})
	require.NoError(t, err)
	upload := Upload{FileName: "a.txt", FileType: "text/plain", DataURL: "data:text/plain;base64,aGk="}
	_, err = env.records.Add(ctx, models.HealthRecordInput{Title: "Lab", RecordType: models.RecordTypeLabReport, Date: "2026-01-01", AssignedTo: member.ID}, upload)
	require.NoError(t, err)

	require.NoError(t, env.family.Delete(ctx, member.ID))

	snap := env.container.Snapshot()
	require.Len(t, snap.FamilyMembers, 1)
	assert.Equal(t, models.AssignedToSelf, snap.Medications[0].AssignedTo)
	assert.Equal(t, other.ID, snap.Medications[1].AssignedTo)
	assert.Equal(t, models.AssignedToSelf, snap.Appointments[0].AssignedTo)
	assert.Equal(t, models.AssignedToSelf, snap.HealthRecords[0].AssignedTo)

	loaded, err := env.states.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.AssignedToSelf, loaded.Medications[0].AssignedTo)

	assert.ErrorIs(t, env.family.Delete(ctx, member.ID), apperrors.ErrNotFound)
}

func TestAppointments_ToggleCompleted(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	appt, err := env.appts.Add(ctx, models.AppointmentInput{Title: "Dentist", Date: "2026-02-03", Time: "11:00"})
	require.NoError(t, err)
	assert.False(t, appt.Completed)

	toggled, err := env.appts.ToggleCompleted(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = env.appts.ToggleCompleted(ctx, appt.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read must not happen")
}

func TestRecords_IngestRejectsOversizedBeforeReading(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.records.Ingest("scan.pdf", "application/pdf", failingReader{}, DefaultMaxFileBytes+1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Same(t, ErrFileTooLarge, err)
}

func TestRecords_IngestDetectsType(t *testing.T) {
	env := newTestEnv(t, 0)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	upload, err := env.records.Ingest("scan", "", bytes.NewReader(png), int64(len(png)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", upload.FileType)
	assert.True(t, strings.HasPrefix(upload.DataURL, "data:image/png;base64,"))

	mediaType, data, err := DecodeDataURL(upload.DataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, png, data)
}

func TestRecords_AddGetDelete(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	upload, err := env.records.Ingest("note.txt", "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)

	_, err = env.records.Add(ctx, models.HealthRecordInput{Title: "Bad", RecordType: "x_ray", Date: "2026-01-01"}, upload)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	rec, err := env.records.Add(ctx, models.HealthRecordInput{Title: "Note", RecordType: models.RecordTypeOther, Date: "2026-01-01"}, upload)
	require.NoError(t, err)
	assert.Equal(t, "note.txt", rec.FileName)
	assert.Equal(t, models.AssignedToSelf, rec.AssignedTo)

	got, err := env.records.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Len(t, env.records.List(), 1)

	require.NoError(t, env.records.Delete(ctx, rec.ID))
	assert.ErrorIs(t, env.records.Delete(ctx, rec.ID), apperrors.ErrNotFound)
	_, err = env.records.Get(rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDecodeDataURL_Rejects(t *testing.T) {
	for _, in := range []string{"hello", "data:text/plain,hi", "data:text/plain;base64", "data:;base64,@@"} {
		_, _, err := DecodeDataURL(in)
		assert.Error(t, err, in)
	}
}
