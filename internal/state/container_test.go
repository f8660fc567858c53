package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
)

type mockPersister struct {
	SaveFunc func(ctx context.Context, userID string, state *models.AppState) error
	saved    []*models.AppState
}

func (m *mockPersister) Save(ctx context.Context, userID string, state *models.AppState) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, userID, state); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, state.Clone())
	return nil
}

func TestContainer_UpdatePersists(t *testing.T) {
	p := &mockPersister{}
	c := New(p, "u1", nil, nil)

	err := c.Update(context.Background(), func(s *models.AppState) error {
		s.Medications = append(s.Medications, models.Medication{ID: "m1", Name: "Aspirin"})
		return nil
	})
	require.NoError(t, err)

	require.Len(t, p.saved, 1)
	assert.Len(t, p.saved[0].Medications, 1)
	assert.Len(t, c.Snapshot().Medications, 1)
}

func TestContainer_FailedSaveLeavesStateUnchanged(t *testing.T) {
	p := &mockPersister{SaveFunc: func(context.Context, string, *models.AppState) error {
		return errors.New("disk full")
	}}
	c := New(p, "u1", nil, nil)

	err := c.Update(context.Background(), func(s *models.AppState) error {
		s.Language = models.LanguageSpanish
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, models.LanguageEnglish, c.Snapshot().Language)
}

func TestContainer_FailedMutationIsNotSaved(t *testing.T) {
	p := &mockPersister{}
	c := New(p, "u1", nil, nil)

	err := c.Update(context.Background(), func(s *models.AppState) error {
		s.Medications = nil
		return apperrors.NotFound("medication", "x")
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, p.saved)
	assert.NotNil(t, c.Snapshot().Medications)
}

func TestContainer_SnapshotIsACopy(t *testing.T) {
	c := New(&mockPersister{}, "u1", nil, nil)

	snap := c.Snapshot()
	snap.Medications = append(snap.Medications, models.Medication{ID: "m1"})
	snap.NotificationLog["k"] = 1

	assert.Empty(t, c.Snapshot().Medications)
	assert.Empty(t, c.Snapshot().NotificationLog)
}

func TestContainer_NavigateClearsEditsOnlyOnViewChange(t *testing.T) {
	ctx := context.Background()
	c := New(&mockPersister{}, "u1", nil, nil)

	require.NoError(t, c.Navigate(ctx, models.ViewReminders))
	c.StartEdit(models.EditMedication, "m1")

	require.NoError(t, c.Navigate(ctx, models.ViewReminders))
	assert.Equal(t, "m1", c.Snapshot().EditingMedicationID)

	require.NoError(t, c.Navigate(ctx, models.ViewFamily))
	snap := c.Snapshot()
	assert.Equal(t, models.ViewFamily, snap.CurrentView)
	assert.Empty(t, snap.EditingMedicationID)
}

func TestContainer_NavigateBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	c := New(&mockPersister{}, "u1", nil, nil)

	before := c.Generation()
	require.NoError(t, c.Navigate(ctx, models.ViewAppointments))
	assert.Equal(t, before+1, c.Generation())

	err := c.Navigate(ctx, models.View("settings"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, before+1, c.Generation())
}

func TestContainer_StartEditKeepsOnePointer(t *testing.T) {
	c := New(&mockPersister{}, "u1", nil, nil)

	c.StartEdit(models.EditMedication, "m1")
	c.StartEdit(models.EditFamilyMember, "f1")

	snap := c.Snapshot()
	assert.Empty(t, snap.EditingMedicationID)
	assert.Equal(t, "f1", snap.EditingFamilyMemberID)

	c.ClearEdits()
	assert.Empty(t, c.Snapshot().EditingFamilyMemberID)
}

func TestContainer_ShowMemberDetails(t *testing.T) {
	ctx := context.Background()
	initial := models.DefaultAppState()
	initial.FamilyMembers = []models.FamilyMember{{ID: "f1", Name: "Ana"}}
	initial.CurrentView = models.ViewEmergency
	c := New(&mockPersister{}, "u1", initial, nil)

	require.NoError(t, c.ShowMemberDetails(ctx, "f1"))
	snap := c.Snapshot()
	assert.Equal(t, models.ViewFamily, snap.CurrentView)
	assert.Equal(t, "f1", snap.EditingFamilyMemberID)

	assert.ErrorIs(t, c.ShowMemberDetails(ctx, "missing"), apperrors.ErrNotFound)
}

func TestContainer_LanguageAndLanding(t *testing.T) {
	ctx := context.Background()
	p := &mockPersister{}
	c := New(p, "u1", nil, nil)

	require.NoError(t, c.SetLanguage(ctx, models.LanguageSpanish))
	require.NoError(t, c.EnterApp(ctx))
	assert.ErrorIs(t, c.SetLanguage(ctx, "fr"), apperrors.ErrValidation)

	snap := c.Snapshot()
	assert.Equal(t, models.LanguageSpanish, snap.Language)
	assert.False(t, snap.IsLandingActive)
	assert.Len(t, p.saved, 2)
}

func TestContainer_Subscribe(t *testing.T) {
	c := New(&mockPersister{}, "u1", nil, nil)

	var seen []models.View
	unsubscribe := c.Subscribe(func(s *models.AppState) {
		seen = append(seen, s.CurrentView)
	})

	require.NoError(t, c.Navigate(context.Background(), models.ViewRecords))
	unsubscribe()
	require.NoError(t, c.Navigate(context.Background(), models.ViewFamily))

	assert.Equal(t, []models.View{models.ViewRecords}, seen)
}
