package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/utils"
)

// MedicationHandler handles medication reminder requests.
type MedicationHandler struct{}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler() *MedicationHandler {
	return &MedicationHandler{}
}

// List fetches medications through the simulated service.
func (h *MedicationHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	meds, err := ws.Medications.Fetch(c.Request.Context())
	if err != nil {
		fail(c, ws, err)
		return
	}
	c.JSON(http.StatusOK, utils.ResponseData{Status: http.StatusOK, Message: "Medications fetched successfully", Data: meds})
}

// Create adds a medication.
func (h *MedicationHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.MedicationInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	med, err := ws.Medications.Add(c.Request.Context(), req)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Created(c, "Medication added successfully", med)
}

// Update saves the edit form, or a partial JSON patch.
func (h *MedicationHandler) Update(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var patch models.MedicationPatch
	if c.ContentType() == gin.MIMEJSON {
		if !utils.BindAndValidate(c, &patch) {
			return
		}
	} else {
		var req models.MedicationInput
		if !utils.BindAndValidate(c, &req) {
			return
		}
		patch = req.Patch()
	}
	med, err := ws.Medications.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Medication updated successfully", med)
}

// Edit opens the edit form for a medication.
func (h *MedicationHandler) Edit(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	id := c.Param("id")
	found := false
	for _, m := range ws.Container.Snapshot().Medications {
		if m.ID == id {
			found = true
			break
		}
	}
	if !found {
		fail(c, ws, apperrors.NotFound("medication", id))
		return
	}
	ws.Container.StartEdit(models.EditMedication, id)
	utils.Success(c, "Editing medication", gin.H{"id": id})
}

// Toggle flips the taken flag.
func (h *MedicationHandler) Toggle(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	med, err := ws.Medications.ToggleTaken(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Medication updated successfully", med)
}

// Delete removes a medication.
func (h *MedicationHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Medications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Medication deleted successfully", nil)
}
