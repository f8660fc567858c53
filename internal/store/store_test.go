package store

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"medminder/internal/models"
)

func newSQLiteBackend(t *testing.T) *SQLBackend {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	backend, err := NewSQLBackend(db)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func newBadgerBackend(t *testing.T) *BadgerBackend {
	t.Helper()
	backend, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"sqlite": newSQLiteBackend(t),
		"badger": newBadgerBackend(t),
	}
}

func TestBackend_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := backend.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, backend.Put(ctx, "k", []byte("v1")))
			require.NoError(t, backend.Put(ctx, "k", []byte("v2")))

			value, found, err := backend.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("v2"), value)

			require.NoError(t, backend.Delete(ctx, "k"))
			_, found, err = backend.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestBackend_LargeValue(t *testing.T) {
	ctx := context.Background()
	value := bytes.Repeat([]byte("a"), 3<<20)
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, backend.Put(ctx, "big", value))

			got, found, err := backend.Get(ctx, "big")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, len(value), len(got))
			assert.True(t, bytes.Equal(value, got))
		})
	}
}

func TestKVEntry_MySQLColumnHoldsLargeState(t *testing.T) {
	s, err := schema.Parse(&KVEntry{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	field := s.LookUpField("Value")
	require.NotNil(t, field)

	assert.Equal(t, "longblob", mysql.Dialector{}.DataTypeOf(field))
}

func TestStateStore_LoadMissingReturnsDefaults(t *testing.T) {
	s := NewStateStore(newSQLiteBackend(t))

	state, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppState(), state)
}

func TestStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewStateStore(backend)
			age := 34

			state := models.DefaultAppState()
			state.Medications = append(state.Medications, models.Medication{ID: "m1", Name: "Aspirin", Time: "08:00", AssignedTo: "self"})
			state.FamilyMembers = append(state.FamilyMembers, models.FamilyMember{
				ID:                "f1",
				Name:              "Ana",
				Age:               &age,
				BloodType:         "O+",
				EmergencyContacts: []models.EmergencyContact{{ID: "c1", Name: "Luis", Phone: "555", Relationship: "brother"}},
			})
			state.Appointments = append(state.Appointments, models.Appointment{ID: "a1", Title: "Checkup", Date: "2026-01-02", Time: "10:00", AssignedTo: "f1"})
			state.HealthRecords = append(state.HealthRecords, models.HealthRecord{ID: "r1", Title: "Lab", RecordType: models.RecordTypeLabReport, FileDataURL: "data:text/plain;base64,aGk="})
			state.CurrentView = models.ViewFamily
			state.Language = models.LanguageSpanish
			state.IsLandingActive = false
			state.NotificationPermission = models.PermissionGranted
			state.NotificationLog["med-m1-2026-01-02-08:00"] = 1767340800000

			require.NoError(t, s.Save(ctx, "u1", state))
			loaded, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, state, loaded)

			// saving an unmodified load changes nothing
			require.NoError(t, s.Save(ctx, "u1", loaded))
			again, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, loaded, again)
		})
	}
}

func TestStateStore_TransientFieldsAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore(newBadgerBackend(t))

	state := models.DefaultAppState()
	state.IsLoadingMedications = true
	state.IsLoadingAppointments = true
	state.EditingFamilyMemberID = "f1"
	require.NoError(t, s.Save(ctx, "u1", state))

	raw, found, err := s.Backend().Get(ctx, StateKey("u1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, string(raw), "isLoading")
	assert.NotContains(t, string(raw), "editing")

	loaded, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, loaded.IsLoadingMedications)
	assert.Empty(t, loaded.EditingFamilyMemberID)
}

func TestStateStore_LoadFillsMissingFields(t *testing.T) {
	ctx := context.Background()
	backend := newSQLiteBackend(t)
	s := NewStateStore(backend)

	blob := `{"medications":[{"id":"m1","name":"Aspirin","time":"08:00","assignedTo":"self"}],
		"familyMembers":[{"id":"f1","name":"Ana","emergencyContacts":null},{"id":"f2","name":"Eva","emergencyContacts":[{"name":"Luis","phone":"1","relationship":"brother"}]}],
		"appointments":null}`
	require.NoError(t, backend.Put(ctx, StateKey("u1"), []byte(blob)))

	state, err := s.Load(ctx, "u1")
	require.NoError(t, err)

	assert.Len(t, state.Medications, 1)
	assert.NotNil(t, state.Appointments)
	assert.NotNil(t, state.HealthRecords)
	assert.Equal(t, models.ViewDashboard, state.CurrentView)
	assert.Equal(t, models.LanguageEnglish, state.Language)
	assert.True(t, state.IsLandingActive)
	assert.Equal(t, models.PermissionDefault, state.NotificationPermission)
	assert.NotNil(t, state.NotificationLog)

	require.Len(t, state.FamilyMembers, 2)
	assert.NotNil(t, state.FamilyMembers[0].EmergencyContacts)
	assert.Empty(t, state.FamilyMembers[0].EmergencyContacts)
	require.Len(t, state.FamilyMembers[1].EmergencyContacts, 1)
	assert.NotEmpty(t, state.FamilyMembers[1].EmergencyContacts[0].ID)
}

func TestStateStore_JSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore(newSQLiteBackend(t))

	var user models.CurrentUser
	found, err := s.GetJSON(ctx, CurrentUserKey, &user)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutJSON(ctx, CurrentUserKey, models.CurrentUser{ID: "u1", Username: "ana"}))
	found, err = s.GetJSON(ctx, CurrentUserKey, &user)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ana", user.Username)
}
