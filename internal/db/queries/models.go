package queries

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Form is a forms row joined with its creator's username.
type Form struct {
	ID              int64
	Title           string
	Description     sql.NullString
	CreatorID       int64
	CreatorUsername string
	IsActive        bool
	IsPublic        bool
	SubmissionLimit sql.NullInt64
	AllowDuplicate  bool
	RequireLogin    bool
	ExpiresAt       sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type FormField struct {
	ID              int64
	FormID          int64
	Label           string
	FieldType       string
	IsRequired      bool
	FieldOrder      int64
	Placeholder     sql.NullString
	HelpText        sql.NullString
	Options         sql.NullString
	ValidationRules sql.NullString
}

type Response struct {
	ID              int64
	FormID          int64
	UserID          sql.NullInt64
	RespondentEmail sql.NullString
	RespondentName  sql.NullString
	IpAddress       string
	UserAgent       string
	SubmittedAt     time.Time
	IsDuplicate     bool
}

type ResponseEntry struct {
	ID          int64
	ResponseID  int64
	FormFieldID int64
	FieldValue  string
}
