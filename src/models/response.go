package models

import "time"

// Backfill defaults for responses stored before submitter fields existed.
const (
	LegacySubmitterName  = "Anonymous User"
	LegacySubmitterEmail = "legacy@example.com"
)

// Response คำตอบที่ผู้ใช้ส่งเข้ามาสำหรับฟอร์มหนึ่ง
type Response struct {
	ID             string                 `json:"_id"`
	Form           string                 `json:"form"`
	Bundle         *string                `json:"bundle"`
	FilledBy       *string                `json:"filledBy"`
	SubmitterName  string                 `json:"submitterName"`
	SubmitterEmail string                 `json:"submitterEmail"`
	Answers        map[string]interface{} `json:"answers"`
	SubmittedAt    time.Time              `json:"submittedAt"`
}

// Submission is the validated input of a new response, after alias normalisation.
type Submission struct {
	Form           string `validate:"required"`
	Bundle         *string
	FilledBy       *string
	SubmitterName  string `validate:"required"`
	SubmitterEmail string `validate:"required"`
	Answers        map[string]interface{}
}

// ResponseStructure summarises which fields a stored response carries.
type ResponseStructure struct {
	ID                string    `json:"_id"`
	HasForm           bool      `json:"hasForm"`
	HasSubmitterName  bool      `json:"hasSubmitterName"`
	HasSubmitterEmail bool      `json:"hasSubmitterEmail"`
	HasAnswers        bool      `json:"hasAnswers"`
	AnswersKeys       []string  `json:"answersKeys"`
	SubmittedAt       time.Time `json:"submittedAt"`
}

// StructureReport ผลลัพธ์ของ endpoint debug/structure
type StructureReport struct {
	TotalResponses  int                 `json:"totalResponses"`
	SampleResponses []ResponseStructure `json:"sampleResponses"`
}
