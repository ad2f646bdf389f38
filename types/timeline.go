package types

const (
	EventSourceDocument    = "document"
	EventSourceExamination = "examination"
	EventSourceManual      = "manual"
)

const (
	EventSeverityLow    = "low"
	EventSeverityMedium = "medium"
	EventSeverityHigh   = "high"
)

// TimelineEvent is one event on a case's medical timeline.
type TimelineEvent struct {
	ID          string `json:"id" bson:"_id"`
	CaseID      string `json:"case_id" bson:"case_id"`
	EventDate   string `json:"event_date" bson:"event_date"`
	EventType   string `json:"event_type" bson:"event_type"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	SourceType  string `json:"source_type" bson:"source_type"`
	SourceID    string `json:"source_id,omitempty" bson:"source_id,omitempty"`
	Severity    string `json:"severity" bson:"severity"`
	IsMilestone bool   `json:"is_milestone" bson:"is_milestone"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
	Color       string `json:"color,omitempty" bson:"color,omitempty"`
	CreateAt    int64  `json:"created_at" bson:"created_at"`
}
