package types

const (
	ExamStatusInProgress = "in_progress"
	ExamStatusCompleted  = "completed"
)

const (
	SideLeft      = "left"
	SideRight     = "right"
	SideBilateral = "bilateral"
)

const (
	TestResultPositive  = "positive"
	TestResultNegative  = "negative"
	TestResultEquivocal = "equivocal"
)

// Examination is one physical examination session for a case.
type Examination struct {
	ID                   string `json:"id" bson:"_id"`
	CaseID               string `json:"case_id" bson:"case_id"`
	ExamDate             string `json:"exam_date" bson:"exam_date"`
	ExamLocation         string `json:"exam_location,omitempty" bson:"exam_location,omitempty"`
	PatientDemeanor      string `json:"patient_demeanor,omitempty" bson:"patient_demeanor,omitempty"`
	Reliability          string `json:"reliability,omitempty" bson:"reliability,omitempty"`
	PhysicianNotes       string `json:"physician_notes,omitempty" bson:"physician_notes,omitempty"`
	ExaminingPhysicianID string `json:"examining_physician_id" bson:"examining_physician_id"`
	Status               string `json:"status" bson:"status"`
	CreateAt             int64  `json:"created_at" bson:"created_at"`
	UpdateAt             int64  `json:"updated_at" bson:"updated_at"`
}

// ROMMeasurement is one range-of-motion measurement.
type ROMMeasurement struct {
	ID             string  `json:"id" bson:"_id"`
	ExaminationID  string  `json:"examination_id" bson:"examination_id"`
	BodyRegion     string  `json:"body_region" bson:"body_region"`
	Joint          string  `json:"joint" bson:"joint"`
	Movement       string  `json:"movement" bson:"movement"`
	Side           string  `json:"side,omitempty" bson:"side,omitempty"`
	ActiveROM      float64 `json:"active_rom,omitempty" bson:"active_rom,omitempty"`
	PassiveROM     float64 `json:"passive_rom,omitempty" bson:"passive_rom,omitempty"`
	NormalROM      float64 `json:"normal_rom,omitempty" bson:"normal_rom,omitempty"`
	PainOnMovement bool    `json:"pain_on_movement" bson:"pain_on_movement"`
	PainLevel      int     `json:"pain_level,omitempty" bson:"pain_level,omitempty"`
	EndFeel        string  `json:"end_feel,omitempty" bson:"end_feel,omitempty"`
	Notes          string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// StrengthTest is one manual muscle strength test (0-5 grading).
type StrengthTest struct {
	ID            string `json:"id" bson:"_id"`
	ExaminationID string `json:"examination_id" bson:"examination_id"`
	BodyRegion    string `json:"body_region" bson:"body_region"`
	MuscleGroup   string `json:"muscle_group" bson:"muscle_group"`
	Side          string `json:"side,omitempty" bson:"side,omitempty"`
	StrengthGrade string `json:"strength_grade" bson:"strength_grade"`
	PainOnTesting bool   `json:"pain_on_testing" bson:"pain_on_testing"`
	PainLevel     int    `json:"pain_level,omitempty" bson:"pain_level,omitempty"`
	Notes         string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// SpecialTest is one provocative orthopedic test.
type SpecialTest struct {
	ID            string `json:"id" bson:"_id"`
	ExaminationID string `json:"examination_id" bson:"examination_id"`
	TestName      string `json:"test_name" bson:"test_name"`
	BodyRegion    string `json:"body_region" bson:"body_region"`
	Side          string `json:"side,omitempty" bson:"side,omitempty"`
	Result        string `json:"result,omitempty" bson:"result,omitempty"`
	Findings      string `json:"findings,omitempty" bson:"findings,omitempty"`
	Notes         string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ExaminationDetail is an examination with all its measurements.
type ExaminationDetail struct {
	Examination
	ROMMeasurements []ROMMeasurement `json:"rom_measurements"`
	StrengthTests   []StrengthTest   `json:"strength_tests"`
	SpecialTests    []SpecialTest    `json:"special_tests"`
}
