package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/utils"
)

// FamilyHandler handles family member requests.
type FamilyHandler struct{}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler() *FamilyHandler {
	return &FamilyHandler{}
}

// List fetches family members through the simulated service.
func (h *FamilyHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	members, err := ws.Family.Fetch(c.Request.Context())
	if err != nil {
		fail(c, ws, err)
		return
	}
	c.JSON(http.StatusOK, utils.ResponseData{Status: http.StatusOK, Message: "Family members fetched successfully", Data: members})
}

// Create adds a family member.
func (h *FamilyHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	req, ok := bindFamilyMember(c)
	if !ok {
		return
	}
	member, err := ws.Family.Add(c.Request.Context(), req)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Created(c, "Family member added successfully", member)
}

// Update saves the edit form, or a partial JSON patch.
func (h *FamilyHandler) Update(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var patch models.FamilyMemberPatch
	if c.ContentType() == gin.MIMEJSON {
		if !utils.BindAndValidate(c, &patch) {
			return
		}
	} else {
		req, ok := bindFamilyMember(c)
		if !ok {
			return
		}
		patch = req.Patch()
	}
	member, err := ws.Family.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Family member updated successfully", member)
}

// Edit opens the edit form for a family member.
func (h *FamilyHandler) Edit(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, found := ws.Container.Snapshot().FamilyMember(id); !found {
		fail(c, ws, apperrors.NotFound("family member", id))
		return
	}
	ws.Container.StartEdit(models.EditFamilyMember, id)
	utils.Success(c, "Editing family member", gin.H{"id": id})
}

// Delete removes a family member; their items are reassigned to self.
func (h *FamilyHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Family.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Family member deleted successfully", nil)
}

// bindFamilyMember binds the family form. Emergency contacts arrive as
// parallel contactId/contactName/contactPhone/contactRelationship fields.
func bindFamilyMember(c *gin.Context) (models.FamilyMemberInput, bool) {
	var req models.FamilyMemberInput
	if !utils.BindAndValidate(c, &req) {
		return req, false
	}
	if c.ContentType() != gin.MIMEJSON {
		req.EmergencyContacts = contactsFromForm(c)
	}
	return req, true
}

func contactsFromForm(c *gin.Context) []models.EmergencyContact {
	ids := c.PostFormArray("contactId")
	names := c.PostFormArray("contactName")
	phones := c.PostFormArray("contactPhone")
	relationships := c.PostFormArray("contactRelationship")

	at := func(values []string, i int) string {
		if i < len(values) {
			return strings.TrimSpace(values[i])
		}
		return ""
	}

	var contacts []models.EmergencyContact
	for i := range names {
		contact := models.EmergencyContact{
			ID:           at(ids, i),
			Name:         at(names, i),
			Phone:        at(phones, i),
			Relationship: at(relationships, i),
		}
		if contact.Name == "" && contact.Phone == "" && contact.Relationship == "" {
			continue
		}
		contacts = append(contacts, contact)
	}
	return contacts
}
