package handlers

import (
	"github.com/gin-gonic/gin"

	"medminder/internal/app"
	"medminder/internal/middleware"
	"medminder/internal/models"
	"medminder/internal/utils"
)

// workspace returns the caller's workspace or responds 401.
func workspace(c *gin.Context) (*app.Workspace, bool) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return ws, true
}

func language(ws *app.Workspace) models.Language {
	return ws.Container.Snapshot().Language
}

// fail maps err to a response in the user's language.
func fail(c *gin.Context, ws *app.Workspace, err error) {
	utils.Fail(c, language(ws), err)
}
