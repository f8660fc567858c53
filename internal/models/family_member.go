package models

// Gender values accepted by the family form
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// BloodType values accepted by the family form
type BloodType string

const BloodTypeUnknown BloodType = "Unknown"

// BloodTypes lists the selectable blood types in form order.
var BloodTypes = []BloodType{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-", BloodTypeUnknown}

// EmergencyContact is a person to call for a family member
type EmergencyContact struct {
	ID           string `json:"id" form:"id"`
	Name         string `json:"name" form:"name"`
	Phone        string `json:"phone" form:"phone"`
	Relationship string `json:"relationship" form:"relationship"`
}

// Complete reports whether every contact field is filled in.
func (c EmergencyContact) Complete() bool {
	return c.Name != "" && c.Phone != "" && c.Relationship != ""
}

// FamilyMember is a person whose medications, appointments and records the
// user manages.
type FamilyMember struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Age               *int               `json:"age,omitempty"`
	Gender            Gender             `json:"gender,omitempty"`
	BloodType         BloodType          `json:"bloodType"`
	MedicalConditions string             `json:"medicalConditions"`
	Allergies         string             `json:"allergies"`
	OtherMedicalInfo  string             `json:"otherMedicalInfo"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
}

// HasEmergencyInfo reports whether the emergency view has anything to show.
func (m FamilyMember) HasEmergencyInfo() bool {
	return (m.BloodType != "" && m.BloodType != BloodTypeUnknown) ||
		m.Allergies != "" ||
		m.MedicalConditions != "" ||
		m.OtherMedicalInfo != "" ||
		len(m.EmergencyContacts) > 0
}

// FamilyMemberInput carries the fields of the family form.
type FamilyMemberInput struct {
	Name              string             `json:"name" form:"name" binding:"required"`
	Age               *int               `json:"age" form:"age"`
	Gender            Gender             `json:"gender" form:"gender"`
	BloodType         BloodType          `json:"bloodType" form:"bloodType"`
	MedicalConditions string             `json:"medicalConditions" form:"medicalConditions"`
	Allergies         string             `json:"allergies" form:"allergies"`
	OtherMedicalInfo  string             `json:"otherMedicalInfo" form:"otherMedicalInfo"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" form:"-"`
}

// FamilyMemberPatch is a partial update; nil fields are left untouched.
type FamilyMemberPatch struct {
	Name              *string            `json:"name,omitempty"`
	Age               **int              `json:"-"`
	Gender            *Gender            `json:"gender,omitempty"`
	BloodType         *BloodType         `json:"bloodType,omitempty"`
	MedicalConditions *string            `json:"medicalConditions,omitempty"`
	Allergies         *string            `json:"allergies,omitempty"`
	OtherMedicalInfo  *string            `json:"otherMedicalInfo,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts,omitempty"`
}

// NewFamilyMember builds a member with a fresh id. Every emergency contact
// receives a fresh id too.
func NewFamilyMember(in FamilyMemberInput) FamilyMember {
	contacts := make([]EmergencyContact, 0, len(in.EmergencyContacts))
	for _, c := range completeContacts(in.EmergencyContacts) {
		c.ID = NewID()
		contacts = append(contacts, c)
	}
	return FamilyMember{
		ID:                NewID(),
		Name:              in.Name,
		Age:               positiveAge(in.Age),
		Gender:            in.Gender,
		BloodType:         in.BloodType,
		MedicalConditions: in.MedicalConditions,
		Allergies:         in.Allergies,
		OtherMedicalInfo:  in.OtherMedicalInfo,
		EmergencyContacts: contacts,
	}
}

// Patch converts a full form submission into an update that replaces the
// contact list.
func (in FamilyMemberInput) Patch() FamilyMemberPatch {
	age := positiveAge(in.Age)
	contacts := completeContacts(in.EmergencyContacts)
	if contacts == nil {
		contacts = []EmergencyContact{}
	}
	return FamilyMemberPatch{
		Name:              &in.Name,
		Age:               &age,
		Gender:            &in.Gender,
		BloodType:         &in.BloodType,
		MedicalConditions: &in.MedicalConditions,
		Allergies:         &in.Allergies,
		OtherMedicalInfo:  &in.OtherMedicalInfo,
		EmergencyContacts: contacts,
	}
}

// Apply merges the patch into m. Contacts without an id are given one.
func (p FamilyMemberPatch) Apply(m *FamilyMember) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Age != nil {
		m.Age = *p.Age
	}
	if p.Gender != nil {
		m.Gender = *p.Gender
	}
	if p.BloodType != nil {
		m.BloodType = *p.BloodType
	}
	if p.MedicalConditions != nil {
		m.MedicalConditions = *p.MedicalConditions
	}
	if p.Allergies != nil {
		m.Allergies = *p.Allergies
	}
	if p.OtherMedicalInfo != nil {
		m.OtherMedicalInfo = *p.OtherMedicalInfo
	}
	if p.EmergencyContacts != nil {
		m.EmergencyContacts = EnsureContactIDs(p.EmergencyContacts)
	}
}

// EnsureContactIDs returns a copy of contacts where every entry has an id.
func EnsureContactIDs(contacts []EmergencyContact) []EmergencyContact {
	out := make([]EmergencyContact, len(contacts))
	for i, c := range contacts {
		if c.ID == "" {
			c.ID = NewID()
		}
		out[i] = c
	}
	return out
}

// completeContacts drops partially filled contact rows.
func completeContacts(contacts []EmergencyContact) []EmergencyContact {
	var out []EmergencyContact
	for _, c := range contacts {
		if c.Complete() {
			out = append(out, c)
		}
	}
	return out
}

// positiveAge maps missing or non-positive ages to nil.
func positiveAge(age *int) *int {
	if age == nil || *age <= 0 {
		return nil
	}
	v := *age
	return &v
}
