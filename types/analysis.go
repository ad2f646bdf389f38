package types

// Analysis states the pipeline moves through. Failed is absorbing.
const (
	AnalysisStateSegmenting   = "segmenting"
	AnalysisStateExtracting   = "extracting"
	AnalysisStateSynthesizing = "synthesizing"
	AnalysisStateScoring      = "scoring"
	AnalysisStatePersisting   = "persisting"
	AnalysisStateDone         = "done"
	AnalysisStateFailed       = "failed"
)

// Medical entity categories the extraction models are instructed to use.
const (
	EntityCategoryDiagnosis          = "diagnosis"
	EntityCategoryMedication         = "medication"
	EntityCategoryProcedure          = "procedure"
	EntityCategorySymptom            = "symptom"
	EntityCategoryAnatomicalLocation = "anatomical_location"
	EntityCategoryVitalSign          = "vital_sign"
	EntityCategoryLabValue           = "lab_value"
	EntityCategoryFinding            = "finding"
)

// Clinical date types.
const (
	DateTypeInjury         = "injury_date"
	DateTypeService        = "service_date"
	DateTypeSurgery        = "surgery_date"
	DateTypeImaging        = "imaging_date"
	DateTypeFollowUp       = "follow_up_date"
	DateTypeSymptomOnset   = "symptom_onset_date"
	DateTypeTreatmentStart = "treatment_start_date"
	DateTypeTreatmentEnd   = "treatment_end_date"
)

// Chunk is a contiguous page-range slice of a source PDF, the unit of
// parallel extraction. It lives only for the duration of one analysis run.
type Chunk struct {
	Index     int    // position in the original page order
	FirstPage int    // 1-based, inclusive
	LastPage  int    // 1-based, inclusive
	Data      []byte // a standalone PDF containing only these pages
}

// PageCount returns the number of pages covered by the chunk.
func (c Chunk) PageCount() int {
	return c.LastPage - c.FirstPage + 1
}

// ExtractionRecord is the raw structured output of one chunk extraction
// call. A failed call produces a record with Err set instead of an error
// return, so one bad chunk never aborts the whole document.
type ExtractionRecord struct {
	ChunkIndex    int             `json:"chunk_index"`
	DocumentTypes []string        `json:"document_types,omitempty"`
	Entities      []MedicalEntity `json:"medical_entities,omitempty"`
	Dates         []ClinicalDate  `json:"clinical_dates,omitempty"`
	Sections      []DocumentSection `json:"sections,omitempty"`
	Tables        []Table         `json:"tables,omitempty"`
	Findings      []string        `json:"key_findings,omitempty"`
	Err           string          `json:"error,omitempty"`
}

// Failed reports whether the record is an error sentinel.
func (r ExtractionRecord) Failed() bool {
	return r.Err != ""
}

// MedicalEntity is one extracted clinical fact. Rows are immutable once
// written; corrections create new rows.
type MedicalEntity struct {
	Text       string  `json:"text" bson:"entity_text"`
	Category   string  `json:"category" bson:"category"`
	ICD10Code  string  `json:"icd10_code,omitempty" bson:"icd10_code,omitempty"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	SourceText string  `json:"source_text,omitempty" bson:"source_text,omitempty"`
}

// ClinicalDate is one extracted clinically significant date. Date is a
// calendar date in YYYY-MM-DD form; any time component is dropped before
// persistence.
type ClinicalDate struct {
	Date       string  `json:"date" bson:"date_value"`
	DateType   string  `json:"date_type" bson:"date_type"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	SourceText string  `json:"source_text,omitempty" bson:"source_text,omitempty"`
}

// DocumentSection is a synthesized excerpt of the source document, e.g.
// "History of Present Illness".
type DocumentSection struct {
	Title       string  `json:"title" bson:"section_title"`
	SectionType string  `json:"section_type" bson:"section_type"`
	Content     string  `json:"content" bson:"content"`
	Confidence  float64 `json:"confidence" bson:"confidence"`
}

// TableCell is one detected cell of a table.
type TableCell struct {
	Text   string `json:"text"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// Table is a detected table structure.
type Table struct {
	Cells       []TableCell `json:"cells,omitempty"`
	RowCount    int         `json:"row_count"`
	ColumnCount int         `json:"column_count"`
	Confidence  float64     `json:"confidence"`
}

// Inconsistency flags a contradiction between extracted facts. It is
// surfaced to the caller, never auto-resolved.
type Inconsistency struct {
	Description string   `json:"description"`
	References  []string `json:"references,omitempty"`
}

// SynthesisOutput is the merged structure the synthesizer produces from
// all chunk records.
type SynthesisOutput struct {
	DocumentType    string            `json:"document_type"`
	Entities        []MedicalEntity   `json:"medical_entities"`
	Dates           []ClinicalDate    `json:"clinical_dates"`
	Sections        []DocumentSection `json:"sections,omitempty"`
	Tables          []Table           `json:"tables,omitempty"`
	KeyFindings     []string          `json:"key_findings,omitempty"`
	Inconsistencies []Inconsistency   `json:"inconsistencies,omitempty"`
	Confidence      float64           `json:"confidence"`
}

// AnalysisResult is the aggregate root returned to the caller and handed
// to the result persister.
type AnalysisResult struct {
	DocumentID      string            `json:"document_id"`
	CaseID          string            `json:"case_id"`
	DocumentType    string            `json:"document_type"`
	Entities        []MedicalEntity   `json:"medical_entities"`
	Dates           []ClinicalDate    `json:"clinical_dates"`
	Sections        []DocumentSection `json:"sections"`
	Tables          []Table           `json:"tables,omitempty"`
	KeyFindings     []string          `json:"key_findings,omitempty"`
	Inconsistencies []Inconsistency   `json:"inconsistencies,omitempty"`
	PageCount       int               `json:"page_count"`
	ChunkCount      int               `json:"chunk_count"`
	FailedChunks    int               `json:"failed_chunks"`
	ProcessingTime  float64           `json:"processing_time"`
	QualityScore    float64           `json:"quality_score"`
	Persisted       bool              `json:"persisted"`
}

// ProcessingStatus is one progress event published while an analysis run
// moves through its states.
type ProcessingStatus struct {
	DocumentID      string  `json:"document_id"`
	State           string  `json:"state"`
	Message         string  `json:"message,omitempty"`
	TotalChunks     int     `json:"total_chunks,omitempty"`
	CompletedChunks int     `json:"completed_chunks,omitempty"`
	Progress        float64 `json:"progress,omitempty"`
}
