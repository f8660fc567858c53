package models

// View selects the content region rendered for the user
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewReminders    View = "reminders"
	ViewAppointments View = "appointments"
	ViewRecords      View = "records"
	ViewFamily       View = "family"
	ViewEmergency    View = "emergency"
)

// Views lists the navigable views in navigation order.
var Views = []View{ViewDashboard, ViewReminders, ViewAppointments, ViewRecords, ViewEmergency, ViewFamily}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// Language selects the translation table
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Valid reports whether l has a translation table.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageSpanish
}

// Permission is the notification permission status
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// EditKind names the entity kinds that have an edit form.
type EditKind string

const (
	EditMedication   EditKind = "medication"
	EditFamilyMember EditKind = "familyMember"
	EditAppointment  EditKind = "appointment"
)

// AppState is the aggregate root of one user's data. Fields tagged json:"-"
// are transient UI flags and never reach storage.
type AppState struct {
	Medications     []Medication   `json:"medications"`
	FamilyMembers   []FamilyMember `json:"familyMembers"`
	Appointments    []Appointment  `json:"appointments"`
	HealthRecords   []HealthRecord `json:"healthRecords"`
	CurrentView     View           `json:"currentView"`
	Language        Language       `json:"language"`
	IsLandingActive bool           `json:"isLandingActive"`

	NotificationPermission Permission       `json:"notificationPermission"`
	NotificationLog        map[string]int64 `json:"notificationLog"` // key -> epoch millis last fired

	IsLoadingMedications   bool `json:"-"`
	IsLoadingFamilyMembers bool `json:"-"`
	IsLoadingAppointments  bool `json:"-"`

	EditingMedicationID   string `json:"-"`
	EditingFamilyMemberID string `json:"-"`
	EditingAppointmentID  string `json:"-"`
}

// DefaultAppState returns the state of a user who has never saved anything.
func DefaultAppState() *AppState {
	return &AppState{
		Medications:            []Medication{},
		FamilyMembers:          []FamilyMember{},
		Appointments:           []Appointment{},
		HealthRecords:          []HealthRecord{},
		CurrentView:            ViewDashboard,
		Language:               LanguageEnglish,
		IsLandingActive:        true,
		NotificationPermission: PermissionDefault,
		NotificationLog:        map[string]int64{},
	}
}

// ClearEdits drops every editing pointer.
func (s *AppState) ClearEdits() {
	s.EditingMedicationID = ""
	s.EditingFamilyMemberID = ""
	s.EditingAppointmentID = ""
}

// StartEdit puts exactly one entity into edit mode.
func (s *AppState) StartEdit(kind EditKind, id string) {
	s.ClearEdits()
	switch kind {
	case EditMedication:
		s.EditingMedicationID = id
	case EditFamilyMember:
		s.EditingFamilyMemberID = id
	case EditAppointment:
		s.EditingAppointmentID = id
	}
}

// FamilyMember looks up a member by id.
func (s *AppState) FamilyMember(id string) (FamilyMember, bool) {
	for _, m := range s.FamilyMembers {
		if m.ID == id {
			return m, true
		}
	}
	return FamilyMember{}, false
}

// AssigneeName resolves an assignment to a member name, or selfLabel.
func (s *AppState) AssigneeName(assignedTo, selfLabel string) string {
	if m, ok := s.FamilyMember(assignedTo); ok {
		return m.Name
	}
	return selfLabel
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	c := *s
	c.Medications = append([]Medication(nil), s.Medications...)
	c.Appointments = append([]Appointment(nil), s.Appointments...)
	c.HealthRecords = append([]HealthRecord(nil), s.HealthRecords...)
	c.FamilyMembers = make([]FamilyMember, len(s.FamilyMembers))
	for i, m := range s.FamilyMembers {
		if m.EmergencyContacts != nil {
			contacts := make([]EmergencyContact, len(m.EmergencyContacts))
			copy(contacts, m.EmergencyContacts)
			m.EmergencyContacts = contacts
		}
		if m.Age != nil {
			age := *m.Age
			m.Age = &age
		}
		c.FamilyMembers[i] = m
	}
	c.NotificationLog = make(map[string]int64, len(s.NotificationLog))
	for k, v := range s.NotificationLog {
		c.NotificationLog[k] = v
	}
	if c.Medications == nil {
		c.Medications = []Medication{}
	}
	if c.Appointments == nil {
		c.Appointments = []Appointment{}
	}
	if c.HealthRecords == nil {
		c.HealthRecords = []HealthRecord{}
	}
	return &c
}
