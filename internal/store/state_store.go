package store

import (
	"context"
	"encoding/json"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
)

// StateStore loads and saves per-user application state as JSON blobs
type StateStore struct {
	backend Backend
}

func NewStateStore(backend Backend) *StateStore {
	return &StateStore{backend: backend}
}

// Backend exposes the underlying key-value backend.
func (s *StateStore) Backend() Backend {
	return s.backend
}

// Load returns the saved state of userID merged over the defaults. A user
// with no saved blob gets the defaults.
func (s *StateStore) Load(ctx context.Context, userID string) (*models.AppState, error) {
	state := models.DefaultAppState()

	raw, found, err := s.backend.Get(ctx, StateKey(userID))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "failed to load state")
	}
	if !found {
		return state, nil
	}

	// Decoding over the defaults keeps every field absent from older blobs.
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "failed to decode state")
	}
	normalize(state)
	return state, nil
}

// Save writes the persisted subset of state.
func (s *StateStore) Save(ctx context.Context, userID string, state *models.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to encode state")
	}
	if err := s.backend.Put(ctx, StateKey(userID), raw); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to save state")
	}
	return nil
}

// GetJSON decodes the value at key into v. It reports false when the key is
// missing.
func (s *StateStore) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	return true, json.Unmarshal(raw, v)
}

// PutJSON encodes v and stores it at key.
func (s *StateStore) PutJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, key, raw)
}

// normalize repairs blobs that carry nulls or values this version does not
// know about.
func normalize(state *models.AppState) {
	if state.Medications == nil {
		state.Medications = []models.Medication{}
	}
	if state.FamilyMembers == nil {
		state.FamilyMembers = []models.FamilyMember{}
	}
	if state.Appointments == nil {
		state.Appointments = []models.Appointment{}
	}
	if state.HealthRecords == nil {
		state.HealthRecords = []models.HealthRecord{}
	}
	for i := range state.FamilyMembers {
		state.FamilyMembers[i].EmergencyContacts = models.EnsureContactIDs(state.FamilyMembers[i].EmergencyContacts)
	}
	if state.CurrentView == "" {
		state.CurrentView = models.ViewDashboard
	}
	if !state.Language.Valid() {
		state.Language = models.LanguageEnglish
	}
	switch state.NotificationPermission {
	case models.PermissionDefault, models.PermissionGranted, models.PermissionDenied:
	default:
		state.NotificationPermission = models.PermissionDefault
	}
	if state.NotificationLog == nil {
		state.NotificationLog = map[string]int64{}
	}
}
