package i18n

var english = map[string]string{
	"appName":                  "MedMinder",
	"landingTagline":           "Your personal health companion, simplified.",
	"getStarted":               "Get Started",
	"featuresTitle":            "Everything you need, in one place.",
	"featureRemindersTitle":    "Medicine Reminders",
	"featureRemindersDesc":     "Never miss a dose with smart, customizable reminders for all your medications.",
	"featureAppointmentsTitle": "Appointment Scheduling",
	"featureAppointmentsDesc":  "Keep track of all doctor visits and lab tests. Sync with your calendar effortlessly.",
	"featureRecordsTitle":      "Digital Health Records",
	"featureRecordsDesc":       "Securely store and access prescriptions, lab reports, and scans anytime, anywhere.",
	"navDashboard":             "Dashboard",
	"navReminders":             "Reminders",
	"navAppointments":          "Appointments",
	"navRecords":               "Records",
	"navEmergency":             "Emergency",
	"navFamily":                "Family",
	"addReminder":              "Add Reminder",
	"editReminder":             "Edit Reminder",
	"updateReminder":           "Update Reminder",
	"medicationName":           "Medication Name",
	"dosage":                   "Dosage (e.g., 1 tablet, 5mg)",
	"frequency":                "Frequency (e.g., Once daily)",
	"time":                     "Time (e.g., 08:00 AM)",
	"duration":                 "Duration (e.g., 7 days, ongoing)",
	"assignedTo":               "Assigned to",
	"self":                     "Self",
	"add":                      "Add",
	"update":                   "Update",
	"saving":                   "Saving...",
	"deleting":                 "Deleting...",
	"loading":                  "Loading...",
	"noReminders":              "No active medicine reminders.",
	"taken":                    "Taken",
	"delete":                   "Delete",
	"edit":                     "Edit",
	"cancel":                   "Cancel",
	"upcomingReminders":        "Upcoming Reminders",
	"manageFamily":             "Manage Family Members",
	"addMember":                "Add Member",
	"editMember":               "Edit Member",
	"updateMember":             "Update Member",
	"memberName":               "Member Name",
	"age":                      "Age",
	"gender":                   "Gender",
	"genderMale":               "Male",
	"genderFemale":             "Female",
	"genderOther":              "Other",
	"genderPreferNotToSay":     "Prefer not to say",
	"medicalConditions":        "Medical Conditions (optional)",
	"bloodType":                "Blood Type",
	"bloodTypeUnknown":         "Unknown",
	"allergies":                "Allergies (optional)",
	"emergencyContacts":        "Emergency Contacts",
	"addEmergencyContact":      "Add Emergency Contact",
	"contactName":              "Contact Name",
	"contactPhone":             "Phone",
	"contactRelationship":      "Relationship",
	"removeContact":            "Remove",
	"otherMedicalInfo":         "Other Medical Info (optional)",
	"noFamilyMembers":          "No family members added yet.",
	"viewNotImplemented":       "This feature is not yet implemented.",
	"selectMember":             "Select Member",
	"selectGender":             "Select Gender",
	"selectBloodType":          "Select Blood Type",
	"welcomeDashboard":         "Welcome to MedMinder!",
	"dashboardGreeting":        "Hello!",
	"dashboardMessage":         "Here's a quick overview of your health activities.",
	"statReminders":            "Active Reminders",
	"statAppointmentsToday":    "Appointments Today",
	"statFamilyMembers":        "Family Members",
	"quickAddReminder":         "Add New Reminder",
	"quickAddAppointment":      "Schedule Appointment",
	"noUpcomingReminders":      "No upcoming reminders for today.",
	"noAppointmentsToday":      "No appointments scheduled for today.",
	"addAppointment":           "Add Appointment",
	"editAppointment":          "Edit Appointment",
	"updateAppointment":        "Update Appointment",
	"appointmentTitle":         "Title (e.g., Doctor Visit)",
	"appointmentDescription":   "Description (optional)",
	"appointmentDate":          "Date",
	"appointmentTime":          "Time",
	"appointmentLocation":      "Location (optional)",
	"appointmentNotes":         "Notes/Checklist (optional)",
	"noAppointments":           "No upcoming appointments.",
	"upcomingAppointments":     "Upcoming Appointments",
	"markCompleted":            "Mark Completed",
	"undo":                     "Undo",
	"completed":                "Completed",
	"addRecord":                "Add Health Record",
	"recordTitle":              "Record Title (e.g., Blood Test Results)",
	"recordType":               "Record Type",
	"recordTypePrescription":   "Prescription",
	"recordTypeLabReport":      "Lab Report",
	"recordTypeScanImaging":    "Scan/Imaging",
	"recordTypeVaccination":    "Vaccination Record",
	"recordTypeOther":          "Other",
	"recordDate":               "Date of Record",
	"recordFile":               "Upload File (Image/PDF)",
	"recordNotes":              "Notes (optional)",
	"noRecords":                "No health records uploaded yet.",
	"uploadedRecords":          "Uploaded Health Records",
	"viewDownload":             "View/Download",
	"fileName":                 "File",
	"emergencyInformation":     "Emergency Information",
	"noEmergencyInfo":          "No emergency information available for this member.",
	"viewFullDetailsInFamily":  "View/Edit full details in Family section.",
	"noFamilyForEmergency":     "No family members to display emergency information for.",
	"errorAPI":                 "An error occurred. Please try again.",
	"loadingMedications":       "Loading medications...",
	"loadingFamilyMembers":     "Loading family members...",
	"loadingAppointments":      "Loading appointments...",
	"at":                       "at",
	"language":                 "Language",
	"logout":                   "Logout",
	"fileTooLarge":             "File is too large. The maximum size is 2 MB.",
	"fileRequired":             "Please select a file to upload.",
	"notificationsEnable":      "Enable notifications",
	"notificationsDenied":      "Notifications are blocked.",
	"notificationsEnabled":     "Notifications are on.",
	"notificationMedTitle":     "Time for {name}",
	"notificationMedBody":      "{name} ({dosage}) for {assignee} at {time}.",
	"notificationApptTitle":    "Upcoming appointment: {name}",
	"notificationApptBody":     "{name} for {assignee} at {time}.",
	"loginHeading":             "Login",
	"registerHeading":          "Register",
	"username":                 "Username",
	"password":                 "Password",
	"confirmPassword":          "Confirm Password",
	"loginToggle":              "Don't have an account? Register here",
	"registerToggle":           "Already have an account? Login here",
}

var spanish = map[string]string{
	"appName":                  "MedMinder",
	"landingTagline":           "Tu compañero de salud personal, simplificado.",
	"getStarted":               "Comenzar",
	"featuresTitle":            "Todo lo que necesitas, en un solo lugar.",
	"featureRemindersTitle":    "Recordatorios de Medicinas",
	"featureRemindersDesc":     "No olvides ni una dosis con recordatorios inteligentes y personalizables para todos tus medicamentos.",
	"featureAppointmentsTitle": "Agenda de Citas",
	"featureAppointmentsDesc":  "Mantén un registro de todas las visitas al médico y pruebas de laboratorio. Sincroniza con tu calendario sin esfuerzo.",
	"featureRecordsTitle":      "Registros de Salud Digitales",
	"featureRecordsDesc":       "Almacena y accede de forma segura a recetas, informes de laboratorio y escaneos en cualquier momento y lugar.",
	"navDashboard":             "Panel",
	"navReminders":             "Recordatorios",
	"navAppointments":          "Citas",
	"navRecords":               "Registros Médicos",
	"navEmergency":             "Emergencia",
	"navFamily":                "Familia",
	"addReminder":              "Añadir Recordatorio",
	"editReminder":             "Editar Recordatorio",
	"updateReminder":           "Actualizar Recordatorio",
	"medicationName":           "Nombre del Medicamento",
	"dosage":                   "Dosis (ej. 1 pastilla, 5mg)",
	"frequency":                "Frecuencia (ej. Una vez al día)",
	"time":                     "Hora (ej. 08:00 AM)",
	"duration":                 "Duración (ej. 7 días, continuo)",
	"assignedTo":               "Asignado a",
	"self":                     "Yo mismo",
	"add":                      "Añadir",
	"update":                   "Actualizar",
	"saving":                   "Guardando...",
	"deleting":                 "Eliminando...",
	"loading":                  "Cargando...",
	"noReminders":              "No hay recordatorios de medicamentos activos.",
	"taken":                    "Tomada",
	"delete":                   "Eliminar",
	"edit":                     "Editar",
	"cancel":                   "Cancelar",
	"upcomingReminders":        "Próximos Recordatorios",
	"manageFamily":             "Gestionar Miembros de Familia",
	"addMember":                "Añadir Miembro",
	"editMember":               "Editar Miembro",
	"updateMember":             "Actualizar Miembro",
	"memberName":               "Nombre del Miembro",
	"age":                      "Edad",
	"gender":                   "Género",
	"genderMale":               "Masculino",
	"genderFemale":             "Femenino",
	"genderOther":              "Otro",
	"genderPreferNotToSay":     "Prefiero no decirlo",
	"medicalConditions":        "Condiciones Médicas (opcional)",
	"bloodType":                "Grupo Sanguíneo",
	"bloodTypeUnknown":         "Desconocido",
	"allergies":                "Alergias (opcional)",
	"emergencyContacts":        "Contactos de Emergencia",
	"addEmergencyContact":      "Añadir Contacto de Emergencia",
	"contactName":              "Nombre del Contacto",
	"contactPhone":             "Teléfono",
	"contactRelationship":      "Relación",
	"removeContact":            "Quitar",
	"otherMedicalInfo":         "Otra Información Médica (opcional)",
	"noFamilyMembers":          "Aún no se han añadido miembros a la familia.",
	"viewNotImplemented":       "Esta función aún no está implementada.",
	"selectMember":             "Seleccionar Miembro",
	"selectGender":             "Seleccionar Género",
	"selectBloodType":          "Seleccionar Grupo Sanguíneo",
	"welcomeDashboard":         "¡Bienvenido a MedMinder!",
	"dashboardGreeting":        "¡Hola!",
	"dashboardMessage":         "Aquí tienes un resumen rápido de tus actividades de salud.",
	"statReminders":            "Recordatorios Activos",
	"statAppointmentsToday":    "Citas para Hoy",
	"statFamilyMembers":        "Miembros Familiares",
	"quickAddReminder":         "Añadir Recordatorio",
	"quickAddAppointment":      "Agendar Cita",
	"noUpcomingReminders":      "No hay recordatorios próximos para hoy.",
	"noAppointmentsToday":      "No hay citas programadas para hoy.",
	"addAppointment":           "Añadir Cita",
	"editAppointment":          "Editar Cita",
	"updateAppointment":        "Actualizar Cita",
	"appointmentTitle":         "Título (ej. Visita Médica)",
	"appointmentDescription":   "Descripción (opcional)",
	"appointmentDate":          "Fecha",
	"appointmentTime":          "Hora",
	"appointmentLocation":      "Lugar (opcional)",
	"appointmentNotes":         "Notas/Lista de verificación (opcional)",
	"noAppointments":           "No hay citas próximas.",
	"upcomingAppointments":     "Próximas Citas",
	"markCompleted":            "Marcar como Completada",
	"undo":                     "Deshacer",
	"completed":                "Completada",
	"addRecord":                "Añadir Registro Médico",
	"recordTitle":              "Título del Registro (ej. Resultados Análisis de Sangre)",
	"recordType":               "Tipo de Registro",
	"recordTypePrescription":   "Receta",
	"recordTypeLabReport":      "Informe de Laboratorio",
	"recordTypeScanImaging":    "Escáner/Imágenes",
	"recordTypeVaccination":    "Registro de Vacunación",
	"recordTypeOther":          "Otro",
	"recordDate":               "Fecha del Registro",
	"recordFile":               "Subir Archivo (Imagen/PDF)",
	"recordNotes":              "Notas (opcional)",
	"noRecords":                "No hay registros médicos subidos aún.",
	"uploadedRecords":          "Registros Médicos Subidos",
	"viewDownload":             "Ver/Descargar",
	"fileName":                 "Archivo",
	"emergencyInformation":     "Información de Emergencia",
	"noEmergencyInfo":          "No hay información de emergencia disponible para este miembro.",
	"viewFullDetailsInFamily":  "Ver/Editar detalles completos en la sección Familia.",
	"noFamilyForEmergency":     "No hay miembros familiares para mostrar información de emergencia.",
	"errorAPI":                 "Ocurrió un error. Por favor, inténtalo de nuevo.",
	"loadingMedications":       "Cargando medicamentos...",
	"loadingFamilyMembers":     "Cargando miembros de familia...",
	"loadingAppointments":      "Cargando citas...",
	"at":                       "a las",
	"language":                 "Idioma",
	"logout":                   "Cerrar sesión",
	"fileTooLarge":             "El archivo es demasiado grande. El tamaño máximo es 2 MB.",
	"fileRequired":             "Selecciona un archivo para subir.",
	"notificationsEnable":      "Activar notificaciones",
	"notificationsDenied":      "Las notificaciones están bloqueadas.",
	"notificationsEnabled":     "Las notificaciones están activadas.",
	"notificationMedTitle":     "Hora de {name}",
	"notificationMedBody":      "{name} ({dosage}) para {assignee} a las {time}.",
	"notificationApptTitle":    "Próxima cita: {name}",
	"notificationApptBody":     "{name} para {assignee} a las {time}.",
}
