package types

const (
	ReportTypePreExam = "pre_exam_summary"
	ReportTypeIME     = "ime_report"
	ReportTypeAddendum = "addendum"
)

const (
	ReportStatusDraft     = "draft"
	ReportStatusInReview  = "in_review"
	ReportStatusFinalized = "finalized"
)

// Report is a generated or authored report attached to a case.
type Report struct {
	ID         string `json:"id" bson:"_id"`
	CaseID     string `json:"case_id" bson:"case_id"`
	ReportType string `json:"report_type" bson:"report_type"`
	Title      string `json:"title" bson:"title"`
	Status     string `json:"status" bson:"status"`
	AuthorID   string `json:"author_id,omitempty" bson:"author_id,omitempty"`
	CreateAt   int64  `json:"created_at" bson:"created_at"`
	UpdateAt   int64  `json:"updated_at" bson:"updated_at"`
}

// ReportSection is one ordered section of a report body.
type ReportSection struct {
	ID       string `json:"id" bson:"_id"`
	ReportID string `json:"report_id" bson:"report_id"`
	Title    string `json:"title" bson:"title"`
	Content  string `json:"content" bson:"content"`
	Order    int    `json:"order" bson:"order"`
}

// ReportDetail bundles a report with its sections for read endpoints.
type ReportDetail struct {
	Report   `bson:",inline"`
	Sections []ReportSection `json:"sections" bson:"sections"`
}
