package types

// Document processing statuses. Status is monotonic: once completed or
// failed it is only changed by an explicit new analysis run.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// Document tracks one uploaded medical record. The pipeline mutates its
// status and analysis metadata but never deletes it.
type Document struct {
	ID           string  `json:"id" bson:"_id"`
	CaseID       string  `json:"case_id" bson:"case_id"`
	FileName     string  `json:"file_name" bson:"file_name"`
	StoragePath  string  `json:"storage_path" bson:"storage_path"`
	MimeType     string  `json:"mime_type" bson:"mime_type"`
	FileSize     int64   `json:"file_size" bson:"file_size"`
	DocumentType string  `json:"document_type,omitempty" bson:"document_type,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty" bson:"quality_score,omitempty"`
	Status       string  `json:"status" bson:"analysis_status"`
	UploadedBy   string  `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty"`
	AnalyzedAt   int64   `json:"analyzed_at,omitempty" bson:"analyzed_at,omitempty"`
	CreateAt     int64   `json:"created_at" bson:"created_at"`
	UpdateAt     int64   `json:"updated_at" bson:"updated_at"`
}

// EntityRow is a persisted medical entity keyed by case. DocumentID is
// carried for traceability back to the source document.
type EntityRow struct {
	ID         string  `json:"id" bson:"_id"`
	CaseID     string  `json:"case_id" bson:"case_id"`
	DocumentID string  `json:"document_id,omitempty" bson:"document_id,omitempty"`
	Text       string  `json:"entity_text" bson:"entity_text"`
	Category   string  `json:"category" bson:"category"`
	ICD10Code  string  `json:"icd10_code,omitempty" bson:"icd10_code,omitempty"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	SourceText string  `json:"source_text,omitempty" bson:"source_text,omitempty"`
	CreateAt   int64   `json:"created_at" bson:"created_at"`
}

// DateRow is a persisted clinical date keyed by case.
type DateRow struct {
	ID         string  `json:"id" bson:"_id"`
	CaseID     string  `json:"case_id" bson:"case_id"`
	DocumentID string  `json:"document_id,omitempty" bson:"document_id,omitempty"`
	DateValue  string  `json:"date_value" bson:"date_value"`
	DateType   string  `json:"date_type" bson:"date_type"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	SourceText string  `json:"source_text,omitempty" bson:"source_text,omitempty"`
	CreateAt   int64   `json:"created_at" bson:"created_at"`
}

// SectionRow is a persisted synthesized document section.
type SectionRow struct {
	ID          string  `json:"id" bson:"_id"`
	CaseID      string  `json:"case_id" bson:"case_id"`
	DocumentID  string  `json:"document_id,omitempty" bson:"document_id,omitempty"`
	Title       string  `json:"section_title" bson:"section_title"`
	SectionType string  `json:"section_type" bson:"section_type"`
	Content     string  `json:"content" bson:"content"`
	Confidence  float64 `json:"confidence" bson:"confidence"`
	CreateAt    int64   `json:"created_at" bson:"created_at"`
}
