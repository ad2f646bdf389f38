package types

type CreateCaseRequest struct {
	PatientFirstName string   `json:"patient_first_name"`
	PatientLastName  string   `json:"patient_last_name"`
	PatientDOB       string   `json:"patient_dob,omitempty"`
	InjuryDate       string   `json:"injury_date,omitempty"`
	InjuryMechanism  string   `json:"injury_mechanism,omitempty"`
	InjuryBodyRegion []string `json:"injury_body_region,omitempty"`
	RequestingParty  string   `json:"requesting_party,omitempty"`
	ExamDate         string   `json:"exam_date,omitempty"`
	ReportDueDate    string   `json:"report_due_date,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

type UpdateCaseRequest struct {
	PatientFirstName string   `json:"patient_first_name,omitempty"`
	PatientLastName  string   `json:"patient_last_name,omitempty"`
	PatientDOB       string   `json:"patient_dob,omitempty"`
	InjuryDate       string   `json:"injury_date,omitempty"`
	InjuryMechanism  string   `json:"injury_mechanism,omitempty"`
	InjuryBodyRegion []string `json:"injury_body_region,omitempty"`
	RequestingParty  string   `json:"requesting_party,omitempty"`
	ExamDate         string   `json:"exam_date,omitempty"`
	ReportDueDate    string   `json:"report_due_date,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

type AssignCaseRequest struct {
	PhysicianID string `json:"physician_id,omitempty"`
	AssistantID string `json:"assistant_id,omitempty"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type PaginateRequest struct {
	Page  int64 `json:"page" form:"page"`
	Limit int64 `json:"limit" form:"limit"`
}

type CreateExaminationRequest struct {
	CaseID          string `json:"case_id"`
	ExamDate        string `json:"exam_date"`
	ExamLocation    string `json:"exam_location,omitempty"`
	PatientDemeanor string `json:"patient_demeanor,omitempty"`
	Reliability     string `json:"reliability,omitempty"`
	PhysicianNotes  string `json:"physician_notes,omitempty"`
}

type RecordROMRequest struct {
	BodyRegion     string  `json:"body_region"`
	Joint          string  `json:"joint"`
	Movement       string  `json:"movement"`
	Side           string  `json:"side,omitempty"`
	ActiveROM      float64 `json:"active_rom,omitempty"`
	PassiveROM     float64 `json:"passive_rom,omitempty"`
	NormalROM      float64 `json:"normal_rom,omitempty"`
	PainOnMovement bool    `json:"pain_on_movement"`
	PainLevel      int     `json:"pain_level,omitempty"`
	EndFeel        string  `json:"end_feel,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type RecordStrengthRequest struct {
	BodyRegion    string `json:"body_region"`
	MuscleGroup   string `json:"muscle_group"`
	Side          string `json:"side,omitempty"`
	StrengthGrade string `json:"strength_grade"`
	PainOnTesting bool   `json:"pain_on_testing"`
	PainLevel     int    `json:"pain_level,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type RecordSpecialTestRequest struct {
	TestName   string `json:"test_name"`
	BodyRegion string `json:"body_region"`
	Side       string `json:"side,omitempty"`
	Result     string `json:"result,omitempty"`
	Findings   string `json:"findings,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type AddTimelineEventRequest struct {
	EventDate   string `json:"event_date"`
	EventType   string `json:"event_type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
	IsMilestone bool   `json:"is_milestone"`
}

type CreateReportRequest struct {
	CaseID     string `json:"case_id"`
	ReportType string `json:"report_type"`
	Title      string `json:"title,omitempty"`
}

type UpdateReportSectionRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}
