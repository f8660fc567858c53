package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"medminder/internal/i18n"
	"medminder/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Chrome carries page data that does not live in AppState.
type Chrome struct {
	Username   string
	Notice     string
	Error      string
	Permission models.Permission
}

// Renderer turns application state into HTML. It keeps no reference to the
// state between calls, so every render is a full replacement.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("medminder").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, now: time.Now}, nil
}

// WithClock returns a renderer that reads "today" from now.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	return &Renderer{tmpl: r.tmpl, now: now}
}

// Render renders the page for state with empty chrome.
func (r *Renderer) Render(state *models.AppState) (string, error) {
	return r.RenderPage(state, Chrome{})
}

// RenderPage renders the landing page or the main app with the content
// region selected by state.CurrentView.
func (r *Renderer) RenderPage(state *models.AppState, chrome Chrome) (string, error) {
	p := r.newPage(state, chrome)
	if state.IsLandingActive {
		return r.execute("landing", p)
	}

	name, data := r.content(state, p)
	content, err := r.execute(name, data)
	if err != nil {
		return "", err
	}
	p.Content = template.HTML(content) // produced by html/template above
	return r.execute("layout", p)
}

// RenderContent renders only the content region.
func (r *Renderer) RenderContent(state *models.AppState) (string, error) {
	p := r.newPage(state, Chrome{})
	name, data := r.content(state, p)
	return r.execute(name, data)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) content(state *models.AppState, p *page) (string, any) {
	switch state.CurrentView {
	case models.ViewDashboard:
		return "dashboard", r.dashboard(state, p)
	case models.ViewReminders:
		return "reminders", reminders(state, p)
	case models.ViewAppointments:
		return "appointments", appointments(state, p)
	case models.ViewRecords:
		return "records", records(state, p)
	case models.ViewFamily:
		return "family", family(state, p)
	case models.ViewEmergency:
		return "emergency", emergency(state, p)
	default:
		return "notImplemented", p
	}
}

// page is the data shared by every template.
type page struct {
	Lang       models.Language
	Username   string
	Notice     string
	Error      string
	Permission models.Permission
	Nav        []navItem
	Languages  []models.Language
	Refresh    bool // a fetch is pending
	Content    template.HTML
}

type navItem struct {
	View   models.View
	Label  string
	Active bool
}

func (r *Renderer) newPage(state *models.AppState, chrome Chrome) *page {
	p := &page{
		Lang:       state.Language,
		Username:   chrome.Username,
		Notice:     chrome.Notice,
		Error:      chrome.Error,
		Permission: chrome.Permission,
		Languages:  []models.Language{models.LanguageEnglish, models.LanguageSpanish},
		Refresh:    state.IsLoadingMedications || state.IsLoadingFamilyMembers || state.IsLoadingAppointments,
	}
	if p.Permission == "" {
		p.Permission = state.NotificationPermission
	}
	for _, v := range models.Views {
		p.Nav = append(p.Nav, navItem{View: v, Label: p.T(navKey(v)), Active: v == state.CurrentView})
	}
	return p
}

// T translates key in the page language.
func (p *page) T(key string) string {
	return i18n.T(p.Lang, key)
}

func navKey(v models.View) string {
	s := string(v)
	return "nav" + strings.ToUpper(s[:1]) + s[1:]
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func assigneeOptions(state *models.AppState, p *page, selected string) []option {
	opts := []option{{Value: models.AssignedToSelf, Label: p.T("self"), Selected: selected == models.AssignedToSelf}}
	for _, m := range state.FamilyMembers {
		opts = append(opts, option{Value: m.ID, Label: m.Name, Selected: selected == m.ID})
	}
	return opts
}

// listState is the shared loading/empty/items switch of every list region.
type listState struct {
	Loading      bool
	LoadingLabel string
	EmptyLabel   string
}

// dashboard

type dashboardData struct {
	*page
	ActiveReminders   int
	RemindersText     string
	AppointmentsToday int
	AppointmentsText  string
	FamilyCount       int
}

func (r *Renderer) dashboard(state *models.AppState, p *page) dashboardData {
	today := r.now().Format(models.DateLayout)
	d := dashboardData{page: p, FamilyCount: len(state.FamilyMembers)}
	for _, m := range state.Medications {
		if !m.Taken {
			d.ActiveReminders++
		}
	}
	for _, a := range state.Appointments {
		if a.Date == today && !a.Completed {
			d.AppointmentsToday++
		}
	}
	d.RemindersText = p.T("noUpcomingReminders")
	if d.ActiveReminders > 0 {
		d.RemindersText = fmt.Sprintf("%d %s", d.ActiveReminders, strings.ToLower(p.T("upcomingReminders")))
	}
	d.AppointmentsText = p.T("noAppointmentsToday")
	if d.AppointmentsToday > 0 {
		d.AppointmentsText = fmt.Sprintf("%d %s %s", d.AppointmentsToday,
			strings.ToLower(p.T("navAppointments")), strings.ToLower(p.T("appointmentDate")))
	}
	return d
}

// reminders

type medicationItem struct {
	models.Medication
	Assignee string
}

type remindersData struct {
	*page
	listState
	Editing  bool
	Form     models.Medication
	Assignee []option
	Items    []medicationItem
}

func reminders(state *models.AppState, p *page) remindersData {
	d := remindersData{
		page:      p,
		listState: listState{Loading: state.IsLoadingMedications, LoadingLabel: p.T("loadingMedications"), EmptyLabel: p.T("noReminders")},
	}
	if state.EditingMedicationID != "" {
		for _, m := range state.Medications {
			if m.ID == state.EditingMedicationID {
				d.Editing, d.Form = true, m
			}
		}
	}
	d.Assignee = assigneeOptions(state, p, d.Form.AssignedTo)
	for _, m := range SortMedications(state.Medications) {
		d.Items = append(d.Items, medicationItem{Medication: m, Assignee: state.AssigneeName(m.AssignedTo, p.T("self"))})
	}
	return d
}

// appointments

type appointmentItem struct {
	models.Appointment
	Assignee string
	When     string
}

type appointmentsData struct {
	*page
	listState
	Editing  bool
	Form     models.Appointment
	Assignee []option
	Items    []appointmentItem
}

func appointments(state *models.AppState, p *page) appointmentsData {
	d := appointmentsData{
		page:      p,
		listState: listState{Loading: state.IsLoadingAppointments, LoadingLabel: p.T("loadingAppointments"), EmptyLabel: p.T("noAppointments")},
	}
	if state.EditingAppointmentID != "" {
		for _, a := range state.Appointments {
			if a.ID == state.EditingAppointmentID {
				d.Editing, d.Form = true, a
			}
		}
	}
	d.Assignee = assigneeOptions(state, p, d.Form.AssignedTo)
	for _, a := range SortAppointments(state.Appointments) {
		when := LongDate(p.Lang, a.Date)
		if when != "" && a.Time != "" {
			when += " " + p.T("at") + " " + a.Time
		}
		d.Items = append(d.Items, appointmentItem{
			Appointment: a,
			Assignee:    state.AssigneeName(a.AssignedTo, p.T("self")),
			When:        when,
		})
	}
	return d
}

// records

type recordItem struct {
	models.HealthRecord
	Assignee  string
	TypeLabel string
	When      string
}

type recordsData struct {
	*page
	listState
	Types    []option
	Assignee []option
	Items    []recordItem
}

func records(state *models.AppState, p *page) recordsData {
	d := recordsData{
		page:      p,
		listState: listState{EmptyLabel: p.T("noRecords")},
		Assignee:  assigneeOptions(state, p, ""),
	}
	for _, t := range models.RecordTypes {
		d.Types = append(d.Types, option{Value: string(t), Label: recordTypeLabel(p, t)})
	}
	for _, rec := range SortRecords(state.HealthRecords) {
		d.Items = append(d.Items, recordItem{
			HealthRecord: rec,
			Assignee:     state.AssigneeName(rec.AssignedTo, p.T("self")),
			TypeLabel:    recordTypeLabel(p, rec.RecordType),
			When:         LongDate(p.Lang, rec.Date),
		})
	}
	return d
}

var recordTypeKeys = map[models.HealthRecordType]string{
	models.RecordTypePrescription: "recordTypePrescription",
	models.RecordTypeLabReport:    "recordTypeLabReport",
	models.RecordTypeScanImaging:  "recordTypeScanImaging",
	models.RecordTypeVaccination:  "recordTypeVaccination",
	models.RecordTypeOther:        "recordTypeOther",
}

func recordTypeLabel(p *page, t models.HealthRecordType) string {
	return i18n.TOr(p.Lang, recordTypeKeys[t], string(t))
}

// family

type familyItem struct {
	models.FamilyMember
	GenderLabel    string
	BloodTypeLabel string
}

type familyData struct {
	*page
	listState
	Editing    bool
	Form       models.FamilyMember
	Genders    []option
	BloodTypes []option
	Contacts   []models.EmergencyContact
	Items      []familyItem
}

// blankContactRows is how many empty contact rows the form offers.
const blankContactRows = 2

var genderKeys = map[models.Gender]string{
	models.GenderMale:           "genderMale",
	models.GenderFemale:         "genderFemale",
	models.GenderOther:          "genderOther",
	models.GenderPreferNotToSay: "genderPreferNotToSay",
}

func family(state *models.AppState, p *page) familyData {
	d := familyData{
		page:      p,
		listState: listState{Loading: state.IsLoadingFamilyMembers, LoadingLabel: p.T("loadingFamilyMembers"), EmptyLabel: p.T("noFamilyMembers")},
	}
	if state.EditingFamilyMemberID != "" {
		if m, ok := state.FamilyMember(state.EditingFamilyMemberID); ok {
			d.Editing, d.Form = true, m
		}
	}

	d.Genders = []option{{Value: "", Label: p.T("selectGender"), Selected: d.Form.Gender == ""}}
	for _, g := range []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther, models.GenderPreferNotToSay} {
		d.Genders = append(d.Genders, option{Value: string(g), Label: p.T(genderKeys[g]), Selected: d.Form.Gender == g})
	}
	for _, bt := range models.BloodTypes {
		d.BloodTypes = append(d.BloodTypes, option{Value: string(bt), Label: string(bt), Selected: d.Form.BloodType == bt})
	}
	d.BloodTypes = append(d.BloodTypes, option{Value: "", Label: p.T("selectBloodType"), Selected: d.Form.BloodType == ""})

	d.Contacts = append(d.Contacts, d.Form.EmergencyContacts...)
	for i := 0; i < blankContactRows; i++ {
		d.Contacts = append(d.Contacts, models.EmergencyContact{})
	}

	for _, m := range state.FamilyMembers {
		item := familyItem{FamilyMember: m}
		if m.Gender != "" {
			item.GenderLabel = i18n.TOr(p.Lang, genderKeys[m.Gender], string(m.Gender))
		}
		if m.BloodType == models.BloodTypeUnknown {
			item.BloodTypeLabel = p.T("bloodTypeUnknown")
		} else {
			item.BloodTypeLabel = string(m.BloodType)
		}
		d.Items = append(d.Items, item)
	}
	return d
}

// emergency

type emergencyCard struct {
	ID                string
	Name              string
	BloodType         string
	Allergies         []string
	MedicalConditions []string
	OtherMedicalInfo  []string
	Contacts          []models.EmergencyContact
	HasInfo           bool
}

type emergencyData struct {
	*page
	Loading bool
	Cards   []emergencyCard
}

func emergency(state *models.AppState, p *page) emergencyData {
	d := emergencyData{page: p, Loading: state.IsLoadingFamilyMembers}
	for _, m := range state.FamilyMembers {
		card := emergencyCard{
			ID:                m.ID,
			Name:              m.Name,
			Allergies:         lines(m.Allergies),
			MedicalConditions: lines(m.MedicalConditions),
			OtherMedicalInfo:  lines(m.OtherMedicalInfo),
			Contacts:          m.EmergencyContacts,
			HasInfo:           m.HasEmergencyInfo(),
		}
		if m.BloodType != models.BloodTypeUnknown {
			card.BloodType = string(m.BloodType)
		}
		d.Cards = append(d.Cards, card)
	}
	return d
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

var spanishMonths = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio",
	"agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// LongDate formats a YYYY-MM-DD date the way each language writes it out.
func LongDate(lang models.Language, date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	if lang == models.LanguageSpanish {
		return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

// LoginPage is the data of the login and registration page.
type LoginPage struct {
	Lang     models.Language
	Register bool
	Username string
	Error    string
}

func (l LoginPage) T(key string) string {
	return i18n.T(l.Lang, key)
}

// RenderLogin renders the login form, or the registration form when
// l.Register is set.
func (r *Renderer) RenderLogin(l LoginPage) (string, error) {
	return r.execute("login", l)
}
