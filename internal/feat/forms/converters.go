package forms

import (
	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/pkg/fb/model"
)

// FromQueries converts a stored form row. Fields and ResponseCount are left empty.
func FromQueries(f queries.Form) *Form {
	return &Form{
		ID:              f.ID,
		Title:           f.Title,
		Description:     model.StringPtr(f.Description),
		CreatorID:       f.CreatorID,
		CreatorUsername: f.CreatorUsername,
		IsActive:        f.IsActive,
		IsPublic:        f.IsPublic,
		SubmissionLimit: model.IntPtr(f.SubmissionLimit),
		AllowDuplicate:  f.AllowDuplicate,
		RequireLogin:    f.RequireLogin,
		ExpiresAt:       model.TimePtr(f.ExpiresAt),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
		Fields:          []*Field{},
	}
}

// FieldFromQueries converts a stored field row.
func FieldFromQueries(f queries.FormField) *Field {
	return &Field{
		ID:              f.ID,
		FormID:          f.FormID,
		Label:           f.Label,
		FieldType:       FieldType(f.FieldType),
		IsRequired:      f.IsRequired,
		FieldOrder:      int(f.FieldOrder),
		Placeholder:     model.StringPtr(f.Placeholder),
		HelpText:        model.StringPtr(f.HelpText),
		Options:         model.StringPtr(f.Options),
		ValidationRules: model.StringPtr(f.ValidationRules),
	}
}

func createFieldParams(formID int64, in FieldInput) queries.CreateFormFieldParams {
	return queries.CreateFormFieldParams{
		FormID:          formID,
		Label:           in.Label,
		FieldType:       in.FieldType,
		IsRequired:      in.IsRequired,
		FieldOrder:      int64(in.FieldOrder),
		Placeholder:     model.NullStringPtr(in.Placeholder),
		HelpText:        model.NullStringPtr(in.HelpText),
		Options:         model.NullStringPtr(in.Options),
		ValidationRules: model.NullStringPtr(in.ValidationRules),
	}
}

func updateFieldParams(formID, id int64, in FieldInput) queries.UpdateFormFieldParams {
	return queries.UpdateFormFieldParams{
		Label:           in.Label,
		FieldType:       in.FieldType,
		IsRequired:      in.IsRequired,
		FieldOrder:      int64(in.FieldOrder),
		Placeholder:     model.NullStringPtr(in.Placeholder),
		HelpText:        model.NullStringPtr(in.HelpText),
		Options:         model.NullStringPtr(in.Options),
		ValidationRules: model.NullStringPtr(in.ValidationRules),
		ID:              id,
		FormID:          formID,
	}
}
