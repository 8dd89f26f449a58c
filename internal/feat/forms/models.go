package forms

import (
	"strings"
	"time"

	"github.com/formbase/formbase/pkg/fb/model"
	"github.com/formbase/formbase/pkg/fb/validation"
)

// FieldType is the input kind of a form field.
type FieldType string

const (
	FieldText     FieldType = "TEXT"
	FieldTextarea FieldType = "TEXTAREA"
	FieldEmail    FieldType = "EMAIL"
	FieldNumber   FieldType = "NUMBER"
	FieldDate     FieldType = "DATE"
	FieldRadio    FieldType = "RADIO"
	FieldCheckbox FieldType = "CHECKBOX"
	FieldDropdown FieldType = "DROPDOWN"
	FieldFile     FieldType = "FILE"
)

var fieldTypes = []string{
	string(FieldText), string(FieldTextarea), string(FieldEmail),
	string(FieldNumber), string(FieldDate), string(FieldRadio),
	string(FieldCheckbox), string(FieldDropdown), string(FieldFile),
}

// Form is a form definition with its ordered fields.
type Form struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	CreatorID       int64      `json:"creatorId"`
	CreatorUsername string     `json:"creatorUsername"`
	IsActive        bool       `json:"isActive"`
	IsPublic        bool       `json:"isPublic"`
	SubmissionLimit *int       `json:"submissionLimit"`
	AllowDuplicate  bool       `json:"allowDuplicate"`
	RequireLogin    bool       `json:"requireLogin"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Fields          []*Field   `json:"fields"`
	ResponseCount   int64      `json:"responseCount"`
}

// IsExpired reports whether the form stopped accepting responses at or before now.
func (f *Form) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && !f.ExpiresAt.After(now)
}

// RequiresAuth reports whether anonymous respondents are turned away.
// Private forms always require a user; requireLogin counts only when
// honorRequireLogin is set.
func (f *Form) RequiresAuth(honorRequireLogin bool) bool {
	return !f.IsPublic || (honorRequireLogin && f.RequireLogin)
}

// Field is one input of a form.
type Field struct {
	ID              int64     `json:"id"`
	FormID          int64     `json:"-"`
	Label           string    `json:"label"`
	FieldType       FieldType `json:"fieldType"`
	IsRequired      bool      `json:"isRequired"`
	FieldOrder      int       `json:"fieldOrder"`
	Placeholder     *string   `json:"placeholder"`
	HelpText        *string   `json:"helpText"`
	Options         *string   `json:"options"`
	ValidationRules *string   `json:"validationRules"`
}

// FormInput is the body of form create and update requests.
// On update a nil Title or flag keeps the stored value, while Description,
// SubmissionLimit and ExpiresAt are always replaced. A nil Fields leaves the
// field set untouched.
type FormInput struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	IsActive        *bool            `json:"isActive"`
	IsPublic        *bool            `json:"isPublic"`
	SubmissionLimit *int             `json:"submissionLimit"`
	AllowDuplicate  *bool            `json:"allowDuplicate"`
	RequireLogin    *bool            `json:"requireLogin"`
	ExpiresAt       *model.Timestamp `json:"expiresAt"`
	Fields          *[]FieldInput    `json:"fields"`
}

// FieldInput describes a field to create, or to update when ID is set.
type FieldInput struct {
	ID              *int64  `json:"id"`
	Label           string  `json:"label"`
	FieldType       string  `json:"fieldType"`
	IsRequired      bool    `json:"isRequired"`
	FieldOrder      int     `json:"fieldOrder"`
	Placeholder     *string `json:"placeholder"`
	HelpText        *string `json:"helpText"`
	Options         *string `json:"options"`
	ValidationRules *string `json:"validationRules"`
}

// Normalize trims the title and upper-cases field types.
func (in *FormInput) Normalize() {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.Fields != nil {
		for i := range *in.Fields {
			f := &(*in.Fields)[i]
			f.Label = strings.TrimSpace(f.Label)
			f.FieldType = strings.ToUpper(strings.TrimSpace(f.FieldType))
		}
	}
}

// Validate checks the input. requireTitle is set on create.
func (in FormInput) Validate(requireTitle bool) error {
	var errs validation.ValidationErrors

	if in.Title != nil || requireTitle {
		title := ""
		if in.Title != nil {
			title = *in.Title
		}
		errs.Check(validation.RequiredString("title", title))
		errs.Check(validation.StringMaxLength("title", title, 200))
	}
	if in.Description != nil {
		errs.Check(validation.StringMaxLength("description", *in.Description, 1000))
	}
	errs.Check(validation.IntMin("submissionLimit", in.SubmissionLimit, 0))

	if in.Fields != nil {
		for _, f := range *in.Fields {
			errs.Check(validation.RequiredString("fields.label", f.Label))
			errs.Check(validation.StringMaxLength("fields.label", f.Label, 200))
			errs.Check(validation.OneOf("fields.fieldType", f.FieldType, fieldTypes...))
		}
	}

	return errs.Err()
}
