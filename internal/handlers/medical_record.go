package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/i18n"
	"medminder/internal/models"
	"medminder/internal/service"
	"medminder/internal/utils"
)

// multipartOverhead is the room allowed for the form fields around the file.
const multipartOverhead = 1 << 20

// RecordHandler handles health record uploads and downloads.
type RecordHandler struct {
	Logger *zap.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(logger *zap.Logger) *RecordHandler {
	return &RecordHandler{Logger: logger}
}

// List returns the user's health records.
func (h *RecordHandler) List(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.ResponseData{Status: http.StatusOK, Message: "Health records fetched successfully", Data: ws.Records.List()})
}

// Create handles the multipart upload form. Oversized files are rejected
// before their content is read.
func (h *RecordHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	lang := language(ws)
	maxBytes := ws.Records.MaxFileBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	var req models.HealthRecordInput
	if err := c.ShouldBind(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.BadRequest(c, i18n.T(lang, "fileTooLarge"))
			return
		}
		utils.BadRequest(c, "Validation failed: "+utils.FormatValidationError(err))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, i18n.T(lang, "fileRequired"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.Logger.Error("Failed to open uploaded file", zap.Error(err))
		utils.BadRequest(c, i18n.T(lang, "errorAPI"))
		return
	}
	defer file.Close()

	upload, err := ws.Records.Ingest(header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		if err == service.ErrFileTooLarge {
			err = apperrors.Validation(i18n.T(lang, "fileTooLarge"))
		}
		fail(c, ws, err)
		return
	}

	rec, err := ws.Records.Add(c.Request.Context(), req, upload)
	if err != nil {
		fail(c, ws, err)
		return
	}
	utils.Created(c, "Health record uploaded successfully", gin.H{
		"id":         rec.ID,
		"title":      rec.Title,
		"recordType": rec.RecordType,
		"date":       rec.Date,
		"assignedTo": rec.AssignedTo,
		"fileName":   rec.FileName,
		"fileType":   rec.FileType,
	})
}

// Download serves the stored file of a record.
func (h *RecordHandler) Download(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	rec, err := ws.Records.Get(c.Param("id"))
	if err != nil {
		fail(c, ws, err)
		return
	}
	mediaType, data, err := service.DecodeDataURL(rec.FileDataURL)
	if err != nil {
		h.Logger.Error("Stored record file is unreadable", zap.String("id", rec.ID), zap.Error(err))
		fail(c, ws, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": rec.FileName})
	if disposition == "" {
		disposition = fmt.Sprintf("attachment; filename=%q", "record")
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, mediaType, data)
}

// Delete removes a health record.
func (h *RecordHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, ws, err)
		return
	}
	utils.Success(c, "Health record deleted successfully", nil)
}
