package queries

import (
	"context"
	"database/sql"
)

const createFormField = `
INSERT INTO form_fields (
    form_id, label, field_type, is_required, field_order, placeholder, help_text, options, validation_rules
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFormFieldParams struct {
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

func (q *Queries) CreateFormField(ctx context.Context, arg CreateFormFieldParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createFormField,
		arg.FormID,
		arg.Label,
		arg.FieldType,
		arg.IsRequired,
		arg.FieldOrder,
		arg.Placeholder,
		arg.HelpText,
		arg.Options,
		arg.ValidationRules,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const formFieldColumns = `id, form_id, label, field_type, is_required, field_order, placeholder, help_text, options, validation_rules`

func scanFormField(row interface{ Scan(...any) error }) (FormField, error) {
	var i FormField
	err := row.Scan(
		&i.ID,
		&i.FormID,
		&i.Label,
		&i.FieldType,
		&i.IsRequired,
		&i.FieldOrder,
		&i.Placeholder,
		&i.HelpText,
		&i.Options,
		&i.ValidationRules,
	)
	return i, err
}

const getFormField = `SELECT ` + formFieldColumns + ` FROM form_fields WHERE id = ?`

func (q *Queries) GetFormField(ctx context.Context, id int64) (FormField, error) {
	return scanFormField(q.db.QueryRowContext(ctx, getFormField, id))
}

const listFormFieldsByForm = `
SELECT ` + formFieldColumns + ` FROM form_fields
WHERE form_id = ?
ORDER BY field_order ASC, id ASC
`

func (q *Queries) ListFormFieldsByForm(ctx context.Context, formID int64) ([]FormField, error) {
	rows, err := q.db.QueryContext(ctx, listFormFieldsByForm, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FormField
	for rows.Next() {
		i, err := scanFormField(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateFormField = `
UPDATE form_fields SET
    label = ?, field_type = ?, is_required = ?, field_order = ?,
    placeholder = ?, help_text = ?, options = ?, validation_rules = ?
WHERE id = ? AND form_id = ?
`

type UpdateFormFieldParams struct {
	Label           string
	FieldType       string
	IsRequired      bool
	FieldOrder      int64
	Placeholder     sql.NullString
	HelpText        sql.NullString
	Options         sql.NullString
	ValidationRules sql.NullString
	ID              int64
	FormID          int64
}

func (q *Queries) UpdateFormField(ctx context.Context, arg UpdateFormFieldParams) error {
	_, err := q.db.ExecContext(ctx, updateFormField,
		arg.Label,
		arg.FieldType,
		arg.IsRequired,
		arg.FieldOrder,
		arg.Placeholder,
		arg.HelpText,
		arg.Options,
		arg.ValidationRules,
		arg.ID,
		arg.FormID,
	)
	return err
}

const deleteFormField = `DELETE FROM form_fields WHERE id = ? AND form_id = ?`

func (q *Queries) DeleteFormField(ctx context.Context, id, formID int64) error {
	_, err := q.db.ExecContext(ctx, deleteFormField, id, formID)
	return err
}
