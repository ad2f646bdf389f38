package types

// Case statuses and the workflow they form. Transitions are validated by
// the case service; archived is terminal.
const (
	CaseStatusOpen       = "open"
	CaseStatusInProgress = "in_progress"
	CaseStatusReview     = "review"
	CaseStatusCompleted  = "completed"
	CaseStatusArchived   = "archived"
)

const (
	CasePriorityLow    = "low"
	CasePriorityNormal = "normal"
	CasePriorityHigh   = "high"
	CasePriorityUrgent = "urgent"
)

const (
	CaseRolePhysician        = "physician"
	CaseRoleMedicalAssistant = "medical_assistant"
)

// Case is one IME case.
type Case struct {
	ID                  string   `json:"id" bson:"_id"`
	CaseNumber          string   `json:"case_number" bson:"case_number"`
	PatientFirstName    string   `json:"patient_first_name" bson:"patient_first_name"`
	PatientLastName     string   `json:"patient_last_name" bson:"patient_last_name"`
	PatientDOB          string   `json:"patient_dob,omitempty" bson:"patient_dob,omitempty"`
	InjuryDate          string   `json:"injury_date,omitempty" bson:"injury_date,omitempty"`
	InjuryMechanism     string   `json:"injury_mechanism,omitempty" bson:"injury_mechanism,omitempty"`
	InjuryBodyRegion    []string `json:"injury_body_region,omitempty" bson:"injury_body_region,omitempty"`
	RequestingParty     string   `json:"requesting_party,omitempty" bson:"requesting_party,omitempty"`
	ExamDate            string   `json:"exam_date,omitempty" bson:"exam_date,omitempty"`
	ReportDueDate       string   `json:"report_due_date,omitempty" bson:"report_due_date,omitempty"`
	Priority            string   `json:"priority" bson:"priority"`
	Status              string   `json:"status" bson:"status"`
	Notes               string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Tags                []string `json:"tags,omitempty" bson:"tags,omitempty"`
	AssignedPhysicianID string   `json:"assigned_physician_id,omitempty" bson:"assigned_physician_id,omitempty"`
	AssignedAssistantID string   `json:"assigned_assistant_id,omitempty" bson:"assigned_assistant_id,omitempty"`
	CreatedBy           string   `json:"created_by" bson:"created_by"`
	CreateAt            int64    `json:"created_at" bson:"created_at"`
	UpdateAt            int64    `json:"updated_at" bson:"updated_at"`
}

// CaseStatusChange records one status transition in the history collection.
type CaseStatusChange struct {
	ID         string `json:"id" bson:"_id"`
	CaseID     string `json:"case_id" bson:"case_id"`
	FromStatus string `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus   string `json:"to_status" bson:"to_status"`
	ChangedBy  string `json:"changed_by" bson:"changed_by"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
	ChangedAt  int64  `json:"changed_at" bson:"changed_at"`
}

// AuditLog is one audit trail entry.
type AuditLog struct {
	ID           string            `json:"id" bson:"_id"`
	UserID       string            `json:"user_id" bson:"user_id"`
	Action       string            `json:"action" bson:"action"`
	ResourceType string            `json:"resource_type" bson:"resource_type"`
	ResourceID   string            `json:"resource_id" bson:"resource_id"`
	Details      map[string]string `json:"details,omitempty" bson:"details,omitempty"`
	CreateAt     int64             `json:"created_at" bson:"created_at"`
}

// CaseStats summarizes a user's caseload for the dashboard.
type CaseStats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByPriority     map[string]int `json:"by_priority"`
	UpcomingExams  int            `json:"upcoming_exams"`
	OverdueReports int            `json:"overdue_reports"`
}
