package models

import "time"

// Field types known to the form designer. The set is open; unknown types are stored as-is.
const (
	FieldTypeFolderName = "folderName"
	FieldTypeHeading    = "heading"
	FieldTypeText       = "text"
	FieldTypeEmail      = "email"
	FieldTypeSelect     = "select"
	FieldTypeTextarea   = "textarea"
)

// DefaultFolderName ใช้เมื่อฟอร์มไม่ได้ระบุโฟลเดอร์
const DefaultFolderName = "Default"

// --- Form ---
type Form struct {
	ID         string            `json:"_id"`
	FolderName string            `json:"folderName"`
	SchemaJSON []FieldDefinition `json:"schemaJson" validate:"required,unique=ID,dive"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// --- FieldDefinition ---
type FieldDefinition struct {
	ID       string   `bson:"id" json:"id" validate:"required"`
	Type     string   `bson:"type" json:"type" validate:"required"`
	Label    string   `bson:"label" json:"label"`
	Required bool     `bson:"required" json:"required"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty" validate:"required_if=Type select"`
}

// FormPatch carries a partial update; nil fields are left untouched.
type FormPatch struct {
	FolderName *string            `json:"folderName,omitempty"`
	SchemaJSON *[]FieldDefinition `json:"schemaJson,omitempty"`
}

// FolderFromSchema returns the label of the first folderName field, if any.
func (f *Form) FolderFromSchema() string {
	for _, field := range f.SchemaJSON {
		if field.Type == FieldTypeFolderName && field.Label != "" {
			return field.Label
		}
	}
	return ""
}
