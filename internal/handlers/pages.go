package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medminder/internal/middleware"
	"medminder/internal/models"
	"medminder/internal/utils"
	"medminder/internal/view"
)

// PageHandler serves the rendered app and its navigation actions.
type PageHandler struct {
	Renderer *view.Renderer
	Logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(renderer *view.Renderer, logger *zap.Logger) *PageHandler {
	return &PageHandler{Renderer: renderer, Logger: logger}
}

// Index renders the current view. While a list is loading the page
// refreshes itself until the fetch settles.
func (h *PageHandler) Index(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	html, err := h.Renderer.RenderPage(ws.Container.Snapshot(), view.Chrome{
		Username:   middleware.GetUsernameFromContext(c),
		Notice:     utils.TakeFlash(c, utils.FlashNoticeCookie),
		Error:      utils.TakeFlash(c, utils.FlashErrorCookie),
		Permission: ws.Scheduler.Permission(),
	})
	if err != nil {
		h.Logger.Error("Failed to render page", zap.String("user_id", ws.UserID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// State returns the JSON snapshot of the user's state.
func (h *PageHandler) State(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	st := ws.Container.Snapshot()
	c.JSON(http.StatusOK, utils.ResponseData{
		Status:  http.StatusOK,
		Message: "State fetched successfully",
		Data: stateResponse{
			AppState:               st,
			IsLoadingMedications:   st.IsLoadingMedications,
			IsLoadingFamilyMembers: st.IsLoadingFamilyMembers,
			IsLoadingAppointments:  st.IsLoadingAppointments,
			EditingMedicationID:    st.EditingMedicationID,
			EditingFamilyMemberID:  st.EditingFamilyMemberID,
			EditingAppointmentID:   st.EditingAppointmentID,
		},
	})
}

// stateResponse exposes the transient fields that storage leaves out.
type stateResponse struct {
	*models.AppState
	IsLoadingMedications   bool   `json:"isLoadingMedications"`
	IsLoadingFamilyMembers bool   `json:"isLoadingFamilyMembers"`
	IsLoadingAppointments  bool   `json:"isLoadingAppointments"`
	EditingMedicationID    string `json:"editingMedicationId,omitempty"`
	EditingFamilyMemberID  string `json:"editingFamilyMemberId,omitempty"`
	EditingAppointmentID   string `json:"editingAppointmentId,omitempty"`
}

// Enter leaves the landing page.
func (h *PageHandler) Enter(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Container.EnterApp(c.Request.Context()); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Welcome", nil)
}

// Navigate switches view and starts loading the list it shows.
func (h *PageHandler) Navigate(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	target := models.View(c.Param("view"))
	if err := ws.Container.Navigate(c.Request.Context(), target); err != nil {
		fail(c, ws, err)
		return
	}
	// quick actions open an empty add form
	if c.PostForm("focus") != "" {
		ws.Container.ClearEdits()
	}
	ws.Refresh(target)
	utils.Success(c, "View changed", gin.H{"view": target})
}

// ShowMemberDetails opens the family form for one member.
func (h *PageHandler) ShowMemberDetails(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Container.ShowMemberDetails(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, ws, err)
		return
	}
	ws.Refresh(models.ViewFamily)
	utils.Success(c, "View changed", gin.H{"view": models.ViewFamily})
}

// SetLanguage persists the UI language.
func (h *PageHandler) SetLanguage(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req struct {
		Language models.Language `json:"language" form:"language" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := ws.Container.SetLanguage(c.Request.Context(), req.Language); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Language changed", gin.H{"language": req.Language})
}

// CancelEdit closes any open edit form.
func (h *PageHandler) CancelEdit(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	ws.Container.ClearEdits()
	utils.Success(c, "Edit cancelled", nil)
}

// RequestNotifications asks for notification permission and starts
// reminders when granted.
func (h *PageHandler) RequestNotifications(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	status, err := ws.Scheduler.RequestPermission(c.Request.Context())
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Notification permission updated", gin.H{"permission": status})
}

// Notifications lists reminders delivered in this session.
func (h *PageHandler) Notifications(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.ResponseData{
		Status:  http.StatusOK,
		Message: "Notifications fetched successfully",
		Data: gin.H{
			"permission":    ws.Scheduler.Permission(),
			"running":       ws.Scheduler.IsRunning(),
			"notifications": ws.Notifications.Sent(),
		},
	})
}
