package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct{}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{}
}

// List fetches appointments through the simulated service.
func (h *AppointmentHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	appts, err := ws.Appointments.Fetch(c.Request.Context())
	if err != nil {
		fail(c, ws, err)
		return
	}
	c.JSON(http.StatusOK, utils.ResponseData{Status: http.StatusOK, Message: "Appointments fetched successfully", Data: appts})
}

// Create handles creating a new appointment.
func (h *AppointmentHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.AppointmentInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	appt, err := ws.Appointments.Add(c.Request.Context(), req)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appt)
}

// Update saves the edit form, or a partial JSON patch.
func (h *AppointmentHandler) Update(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var patch models.AppointmentPatch
	if c.ContentType() == gin.MIMEJSON {
		if !utils.BindAndValidate(c, &patch) {
			return
		}
	} else {
		var req models.AppointmentInput
		if !utils.BindAndValidate(c, &req) {
			return
		}
		patch = req.Patch()
	}
	appt, err := ws.Appointments.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appt)
}

// Edit opens the edit form for an appointment.
func (h *AppointmentHandler) Edit(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	id := c.Param("id")
	found := false
	for _, a := range ws.Container.Snapshot().Appointments {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		fail(c, ws, apperrors.NotFound("appointment", id))
		return
	}
	ws.Container.StartEdit(models.EditAppointment, id)
	utils.Success(c, "Editing appointment", gin.H{"id": id})
}

// Toggle flips the completed flag.
func (h *AppointmentHandler) Toggle(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	appt, err := ws.Appointments.ToggleCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appt)
}

// Delete removes an appointment.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}
