package models

// HealthRecordType tags the kind of uploaded record
type HealthRecordType string

const (
	RecordTypePrescription HealthRecordType = "prescription"
	RecordTypeLabReport    HealthRecordType = "lab_report"
	RecordTypeScanImaging  HealthRecordType = "scan_imaging"
	RecordTypeVaccination  HealthRecordType = "vaccination"
	RecordTypeOther        HealthRecordType = "other"
)

// RecordTypes lists the selectable record types in form order.
var RecordTypes = []HealthRecordType{
	RecordTypePrescription,
	RecordTypeLabReport,
	RecordTypeScanImaging,
	RecordTypeVaccination,
	RecordTypeOther,
}

// HealthRecord is an uploaded health document. The file content is owned by
// the record itself as a base64 data URL.
type HealthRecord struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	RecordType  HealthRecordType `json:"recordType"`
	Date        string           `json:"date"`
	AssignedTo  string           `json:"assignedTo"`
	FileName    string           `json:"fileName"`
	FileDataURL string           `json:"fileDataUrl"`
	FileType    string           `json:"fileType"` // MIME type of the file
	Notes       string           `json:"notes"`
}

// HealthRecordInput carries the metadata fields of the upload form.
type HealthRecordInput struct {
	Title      string           `form:"title" json:"title" binding:"required"`
	RecordType HealthRecordType `form:"recordType" json:"recordType" binding:"required"`
	Date       string           `form:"date" json:"date" binding:"required"`
	AssignedTo string           `form:"assignedTo" json:"assignedTo"`
	Notes      string           `form:"notes" json:"notes"`
}

// NewHealthRecord builds a record around an already encoded file.
func NewHealthRecord(in HealthRecordInput, fileName, fileType, dataURL string) HealthRecord {
	return HealthRecord{
		ID:          NewID(),
		Title:       in.Title,
		RecordType:  in.RecordType,
		Date:        in.Date,
		AssignedTo:  assignedOrSelf(in.AssignedTo),
		FileName:    fileName,
		FileDataURL: dataURL,
		FileType:    fileType,
		Notes:       in.Notes,
	}
}
