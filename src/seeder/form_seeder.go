package seeder

import (
	"time"

	"forms-backend/src/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SampleForms คืนค่าฟอร์มตัวอย่างสำหรับโหมด Fallback และการ seed ฐานข้อมูลว่าง
func SampleForms() []models.Form {
	return []models.Form{
		{
			FolderName: "Marketing",
			SchemaJSON: []models.FieldDefinition{
				{ID: "folderName_1", Type: models.FieldTypeFolderName, Label: "Marketing"},
				{ID: "heading_1", Type: models.FieldTypeHeading, Label: "Customer Feedback Form"},
				{ID: "name_1", Type: models.FieldTypeText, Label: "Your Name", Required: true},
				{ID: "email_1", Type: models.FieldTypeEmail, Label: "Email Address", Required: true},
				{ID: "rating_1", Type: models.FieldTypeSelect, Label: "Overall Rating", Required: true,
					Options: []string{"Excellent", "Good", "Average", "Poor"}},
				{ID: "comments_1", Type: models.FieldTypeTextarea, Label: "Additional Comments"},
			},
			CreatedAt: date(2024, time.January, 15),
		},
		{
			FolderName: "HR",
			SchemaJSON: []models.FieldDefinition{
				{ID: "folderName_2", Type: models.FieldTypeFolderName, Label: "HR"},
				{ID: "heading_2", Type: models.FieldTypeHeading, Label: "Employee Survey"},
				{ID: "employee_id", Type: models.FieldTypeText, Label: "Employee ID", Required: true},
				{ID: "department", Type: models.FieldTypeSelect, Label: "Department", Required: true,
					Options: []string{"IT", "Marketing", "Sales", "HR", "Finance"}},
				{ID: "satisfaction", Type: models.FieldTypeSelect, Label: "Job Satisfaction", Required: true,
					Options: []string{"Very Satisfied", "Satisfied", "Neutral", "Dissatisfied", "Very Dissatisfied"}},
				{ID: "suggestions", Type: models.FieldTypeTextarea, Label: "Suggestions for Improvement"},
			},
			CreatedAt: date(2024, time.January, 20),
		},
		{
			FolderName: "Support",
			SchemaJSON: []models.FieldDefinition{
				{ID: "folderName_3", Type: models.FieldTypeFolderName, Label: "Support"},
				{ID: "heading_3", Type: models.FieldTypeHeading, Label: "Support Ticket"},
				{ID: "ticket_type", Type: models.FieldTypeSelect, Label: "Issue Type", Required: true,
					Options: []string{"Bug Report", "Feature Request", "Technical Support", "General Inquiry"}},
				{ID: "priority", Type: models.FieldTypeSelect, Label: "Priority", Required: true,
					Options: []string{"Low", "Medium", "High", "Critical"}},
				{ID: "description", Type: models.FieldTypeTextarea, Label: "Issue Description", Required: true},
			},
			CreatedAt: date(2024, time.January, 25),
		},
		{
			FolderName: "Marketing/Campaigns",
			SchemaJSON: []models.FieldDefinition{
				{ID: "folderName_4", Type: models.FieldTypeFolderName, Label: "Marketing/Campaigns"},
				{ID: "heading_4", Type: models.FieldTypeHeading, Label: "Campaign Effectiveness Survey"},
				{ID: "campaign_name", Type: models.FieldTypeText, Label: "Campaign Name", Required: true},
				{ID: "effectiveness", Type: models.FieldTypeSelect, Label: "Effectiveness Rating", Required: true,
					Options: []string{"Very Effective", "Effective", "Somewhat Effective", "Not Effective"}},
				{ID: "feedback", Type: models.FieldTypeTextarea, Label: "Additional Feedback"},
			},
			CreatedAt: date(2024, time.February, 1),
		},
	}
}

// SampleResponses builds the sample responses for forms created from SampleForms.
// formIDs must be in the same order as SampleForms. The Support form gets no responses.
func SampleResponses(formIDs []string) []models.Response {
	if len(formIDs) < 4 {
		return nil
	}
	return []models.Response{
		{
			Form:           formIDs[0],
			SubmitterName:  "John Doe",
			SubmitterEmail: "john.doe@example.com",
			Answers: map[string]interface{}{
				"name_1":     "John Doe",
				"email_1":    "john.doe@example.com",
				"rating_1":   "Excellent",
				"comments_1": "Great service, very satisfied!",
			},
			SubmittedAt: date(2024, time.January, 16),
		},
		{
			Form:           formIDs[0],
			SubmitterName:  "Jane Smith",
			SubmitterEmail: "jane.smith@example.com",
			Answers: map[string]interface{}{
				"name_1":     "Jane Smith",
				"email_1":    "jane.smith@example.com",
				"rating_1":   "Good",
				"comments_1": "Overall positive experience with minor issues.",
			},
			SubmittedAt: date(2024, time.January, 17),
		},
		{
			Form:           formIDs[1],
			SubmitterName:  "Alice Johnson",
			SubmitterEmail: "alice.johnson@company.com",
			Answers: map[string]interface{}{
				"employee_id":  "EMP001",
				"department":   "IT",
				"satisfaction": "Satisfied",
				"suggestions":  "More flexible working hours would be great.",
			},
			SubmittedAt: date(2024, time.January, 21),
		},
		{
			Form:           formIDs[3],
			SubmitterName:  "Bob Wilson",
			SubmitterEmail: "bob.wilson@marketing.com",
			Answers: map[string]interface{}{
				"campaign_name": "Summer Sale 2024",
				"effectiveness": "Very Effective",
				"feedback":      "Great response from customers, exceeded expectations.",
			},
			SubmittedAt: date(2024, time.February, 2),
		},
	}
}
