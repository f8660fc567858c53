package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "medminder/internal/errors"
	"medminder/internal/i18n"
	"medminder/internal/models"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Cookies carrying a one-shot message to the next rendered page.
const (
	FlashErrorCookie  = "medminder_flash_error"
	FlashNoticeCookie = "medminder_flash_notice"
)

// WantsHTML reports whether the client is a browser form rather than an API
// client. Requests without an Accept header get JSON.
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// Respond sends data to API clients and redirects browsers to location.
func Respond(c *gin.Context, statusCode int, location, message string, data interface{}) {
	if WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: message,
		Data:    data,
	})
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "/", message, data)
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusCreated, "/", message, data)
}

// Error sends a standard error response. Browsers are sent back to the app
// with the message flashed.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	ErrorTo(c, statusCode, "/", errorMessage)
}

// ErrorTo is Error with an explicit browser redirect target.
func ErrorTo(c *gin.Context, statusCode int, location, errorMessage string) {
	if WantsHTML(c) {
		SetFlash(c, FlashErrorCookie, errorMessage)
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation, apperrors.CodeUnsupportedEnv:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeStale:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail responds with the status and message matching err. Validation
// messages are shown as is; everything else gets the translated generic
// retry message.
func Fail(c *gin.Context, lang models.Language, err error) {
	status := StatusFor(err)
	message := i18n.T(lang, "errorAPI")
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		message = apperrors.UserMessage(err, message)
	}
	Error(c, status, message)
}

// SetFlash stores a message for the next page render.
func SetFlash(c *gin.Context, name, message string) {
	c.SetCookie(name, message, 60, "/", "", false, true)
}

// TakeFlash returns and clears a flashed message.
func TakeFlash(c *gin.Context, name string) string {
	message, err := c.Cookie(name)
	if err != nil || message == "" {
		return ""
	}
	c.SetCookie(name, "", -1, "/", "", false, true)
	return message
}
