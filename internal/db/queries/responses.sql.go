package queries

import (
	"context"
	"database/sql"
	"time"
)

const createResponse = `
INSERT INTO responses (
    form_id, user_id, respondent_email, respondent_name, ip_address, user_agent, submitted_at, is_duplicate
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateResponseParams struct {
	FormID          int64
	UserID          sql.NullInt64
	RespondentEmail sql.NullString
	RespondentName  sql.NullString
	IpAddress       string
	UserAgent       string
	SubmittedAt     time.Time
	IsDuplicate     bool
}

func (q *Queries) CreateResponse(ctx context.Context, arg CreateResponseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createResponse,
		arg.FormID,
		arg.UserID,
		arg.RespondentEmail,
		arg.RespondentName,
		arg.IpAddress,
		arg.UserAgent,
		arg.SubmittedAt,
		arg.IsDuplicate,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const responseColumns = `id, form_id, user_id, respondent_email, respondent_name, ip_address, user_agent, submitted_at, is_duplicate`

func scanResponse(row interface{ Scan(...any) error }) (Response, error) {
	var i Response
	err := row.Scan(
		&i.ID,
		&i.FormID,
		&i.UserID,
		&i.RespondentEmail,
		&i.RespondentName,
		&i.IpAddress,
		&i.UserAgent,
		&i.SubmittedAt,
		&i.IsDuplicate,
	)
	return i, err
}

func (q *Queries) listResponses(ctx context.Context, query string, args ...interface{}) ([]Response, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Response
	for rows.Next() {
		i, err := scanResponse(rows)
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

const countResponsesByForm = `SELECT COUNT(*) FROM responses WHERE form_id = ?`

func (q *Queries) CountResponsesByForm(ctx context.Context, formID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countResponsesByForm, formID).Scan(&count)
	return count, err
}

const countResponsesByFormAndEmail = `SELECT COUNT(*) FROM responses WHERE form_id = ? AND respondent_email = ?`

func (q *Queries) CountResponsesByFormAndEmail(ctx context.Context, formID int64, email string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countResponsesByFormAndEmail, formID, email).Scan(&count)
	return count, err
}

const listResponsesByForm = `
SELECT ` + responseColumns + ` FROM responses
WHERE form_id = ?
ORDER BY submitted_at DESC, id DESC
`

func (q *Queries) ListResponsesByForm(ctx context.Context, formID int64) ([]Response, error) {
	return q.listResponses(ctx, listResponsesByForm, formID)
}

const listResponsesByFormAndDateRange = `
SELECT ` + responseColumns + ` FROM responses
WHERE form_id = ? AND submitted_at BETWEEN ? AND ?
ORDER BY submitted_at DESC, id DESC
`

func (q *Queries) ListResponsesByFormAndDateRange(ctx context.Context, formID int64, start, end time.Time) ([]Response, error) {
	return q.listResponses(ctx, listResponsesByFormAndDateRange, formID, start, end)
}

const createResponseEntry = `
INSERT INTO response_entries (response_id, form_field_id, field_value)
VALUES (?, ?, ?)
`

type CreateResponseEntryParams struct {
	ResponseID  int64
	FormFieldID int64
	FieldValue  string
}

func (q *Queries) CreateResponseEntry(ctx context.Context, arg CreateResponseEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createResponseEntry, arg.ResponseID, arg.FormFieldID, arg.FieldValue)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) listResponseEntries(ctx context.Context, query string, arg int64) ([]ResponseEntry, error) {
	rows, err := q.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ResponseEntry
	for rows.Next() {
		var i ResponseEntry
		if err := rows.Scan(&i.ID, &i.ResponseID, &i.FormFieldID, &i.FieldValue); err != nil {
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

const listResponseEntriesByForm = `
SELECT e.id, e.response_id, e.form_field_id, e.field_value FROM response_entries e
JOIN responses r ON r.id = e.response_id
WHERE r.form_id = ?
ORDER BY e.id ASC
`

func (q *Queries) ListResponseEntriesByForm(ctx context.Context, formID int64) ([]ResponseEntry, error) {
	return q.listResponseEntries(ctx, listResponseEntriesByForm, formID)
}
