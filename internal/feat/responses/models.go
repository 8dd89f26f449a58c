package responses

import (
	"time"
)

// Response is one stored submission of a form.
type Response struct {
	ID              int64     `json:"id"`
	FormID          int64     `json:"formId"`
	UserID          *int64    `json:"userId"`
	RespondentEmail *string   `json:"respondentEmail"`
	RespondentName  *string   `json:"respondentName"`
	IPAddress       string    `json:"ipAddress"`
	UserAgent       string    `json:"-"`
	SubmittedAt     time.Time `json:"submittedAt"`
	IsDuplicate     bool      `json:"isDuplicate"`
	Entries         []*Entry  `json:"entries"`
}

// Entry is the value given to one field in a response.
type Entry struct {
	ID          int64  `json:"id"`
	ResponseID  int64  `json:"responseId"`
	FormFieldID int64  `json:"formFieldId"`
	FieldValue  string `json:"fieldValue"`
}

// FieldValue is one key of a submitted body with its value already
// rendered as a string. Key is expected to hold a field id.
type FieldValue struct {
	Key   string
	Value string
}

// Submission is a respondent's request to store a response.
type Submission struct {
	FormID          int64
	Values          []FieldValue
	RespondentEmail string
	RespondentName  string
	IPAddress       string
	UserAgent       string
}
