package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
	"medminder/internal/state"
)

// DefaultMaxFileBytes is the largest accepted health record upload.
const DefaultMaxFileBytes int64 = 2 << 20

// ErrFileTooLarge is returned by Ingest before anything is read.
var ErrFileTooLarge = apperrors.Validation("File is too large. The maximum size is 2 MB.")

// Upload is an ingested file ready to be attached to a record.
type Upload struct {
	FileName string
	FileType string
	DataURL  string
}

// Records manages health records. Uploads are handled locally, so these
// calls have no simulated delay.
type Records struct {
	base
	maxFileBytes int64
}

func NewRecords(c *state.Container, opts Options) *Records {
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	return &Records{base: newBase(c, opts, "health_record"), maxFileBytes: maxBytes}
}

func recordID(r models.HealthRecord) string { return r.ID }

// MaxFileBytes is the largest upload Ingest accepts.
func (s *Records) MaxFileBytes() int64 {
	return s.maxFileBytes
}

// Ingest reads one file and encodes it as a data URL. Files larger than the
// limit are rejected from their declared size without being read.
func (s *Records) Ingest(fileName, declaredType string, r io.Reader, size int64) (Upload, error) {
	if size > s.maxFileBytes {
		s.rejectUpload(fileName, size)
		return Upload{}, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxFileBytes+1))
	if err != nil {
		return Upload{}, apperrors.Wrap(err, apperrors.CodeValidation, "Error uploading file. Please try again.")
	}
	if int64(len(data)) > s.maxFileBytes {
		s.rejectUpload(fileName, int64(len(data)))
		return Upload{}, ErrFileTooLarge
	}

	fileType := baseMediaType(declaredType)
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = baseMediaType(mimetype.Detect(data).String())
	}

	return Upload{
		FileName: fileName,
		FileType: fileType,
		DataURL:  "data:" + fileType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *Records) rejectUpload(fileName string, size int64) {
	s.logger.Warn("Rejected oversized upload", zap.String("file", fileName), zap.Int64("size", size))
	if s.metrics != nil {
		s.metrics.UploadsRejected.Inc()
	}
}

// Add stores a record around an ingested upload.
func (s *Records) Add(ctx context.Context, in models.HealthRecordInput, upload Upload) (rec models.HealthRecord, err error) {
	if !validRecordType(in.RecordType) {
		return models.HealthRecord{}, apperrors.Validation(fmt.Sprintf("Unknown record type %q.", in.RecordType))
	}
	if upload.DataURL == "" {
		return models.HealthRecord{}, apperrors.Validation("Please select a file to upload.")
	}

	rec = models.NewHealthRecord(in, upload.FileName, upload.FileType, upload.DataURL)
	err = s.container.Update(ctx, func(st *models.AppState) error {
		st.HealthRecords = append(st.HealthRecords, rec)
		return nil
	})
	if err != nil {
		return models.HealthRecord{}, err
	}
	s.logger.Info("Health record added", zap.String("id", rec.ID), zap.String("file", rec.FileName))
	return rec, nil
}

// Delete removes the record with the given id.
func (s *Records) Delete(ctx context.Context, id string) error {
	return s.container.Update(ctx, func(st *models.AppState) error {
		i := indexOf(st.HealthRecords, id, recordID)
		if i < 0 {
			return apperrors.NotFound("health record", id)
		}
		st.HealthRecords = append(st.HealthRecords[:i], st.HealthRecords[i+1:]...)
		return nil
	})
}

func (s *Records) Get(id string) (models.HealthRecord, error) {
	records := s.container.Snapshot().HealthRecords
	i := indexOf(records, id, recordID)
	if i < 0 {
		return models.HealthRecord{}, apperrors.NotFound("health record", id)
	}
	return records[i], nil
}

func (s *Records) List() []models.HealthRecord {
	return s.container.Snapshot().HealthRecords
}

// DecodeDataURL splits a base64 data URL into its media type and content.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, apperrors.Validation("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, apperrors.Validation("malformed data URL")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, apperrors.Validation("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.CodeValidation, "malformed data URL")
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}
	return mediaType, data, nil
}

func validRecordType(t models.HealthRecordType) bool {
	for _, known := range models.RecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// baseMediaType drops parameters such as charset.
func baseMediaType(t string) string {
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}
