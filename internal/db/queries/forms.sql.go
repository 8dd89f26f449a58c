package queries

import (
	"context"
	"database/sql"
	"time"
)

const createForm = `
INSERT INTO forms (
    title, description, creator_id, is_active, is_public, submission_limit,
    allow_duplicate, require_login, expires_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFormParams struct {
	Title           string
	Description     sql.NullString
	CreatorID       int64
	IsActive        bool
	IsPublic        bool
	SubmissionLimit sql.NullInt64
	AllowDuplicate  bool
	RequireLogin    bool
	ExpiresAt       sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreateForm(ctx context.Context, arg CreateFormParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createForm,
		arg.Title,
		arg.Description,
		arg.CreatorID,
		arg.IsActive,
		arg.IsPublic,
		arg.SubmissionLimit,
		arg.AllowDuplicate,
		arg.RequireLogin,
		arg.ExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const formColumns = `
    f.id, f.title, f.description, f.creator_id, u.username, f.is_active, f.is_public,
    f.submission_limit, f.allow_duplicate, f.require_login, f.expires_at, f.created_at, f.updated_at
`

const formFrom = ` FROM forms f JOIN users u ON u.id = f.creator_id `

func scanForm(row interface{ Scan(...any) error }) (Form, error) {
	var i Form
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.CreatorID,
		&i.CreatorUsername,
		&i.IsActive,
		&i.IsPublic,
		&i.SubmissionLimit,
		&i.AllowDuplicate,
		&i.RequireLogin,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listForms(ctx context.Context, query string, args ...interface{}) ([]Form, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Form
	for rows.Next() {
		i, err := scanForm(rows)
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

const getForm = `SELECT` + formColumns + formFrom + `WHERE f.id = ?`

func (q *Queries) GetForm(ctx context.Context, id int64) (Form, error) {
	return scanForm(q.db.QueryRowContext(ctx, getForm, id))
}

const getActiveForm = `SELECT` + formColumns + formFrom + `WHERE f.id = ? AND f.is_active = 1`

func (q *Queries) GetActiveForm(ctx context.Context, id int64) (Form, error) {
	return scanForm(q.db.QueryRowContext(ctx, getActiveForm, id))
}

const listActiveFormsByCreator = `SELECT` + formColumns + formFrom + `
WHERE f.creator_id = ? AND f.is_active = 1
ORDER BY f.created_at DESC, f.id DESC
`

func (q *Queries) ListActiveFormsByCreator(ctx context.Context, creatorID int64) ([]Form, error) {
	return q.listForms(ctx, listActiveFormsByCreator, creatorID)
}

const listPublicActiveForms = `SELECT` + formColumns + formFrom + `
WHERE f.is_public = 1 AND f.is_active = 1 AND (f.expires_at IS NULL OR f.expires_at > ?)
ORDER BY f.created_at DESC, f.id DESC
`

func (q *Queries) ListPublicActiveForms(ctx context.Context, now time.Time) ([]Form, error) {
	return q.listForms(ctx, listPublicActiveForms, now)
}

const updateForm = `
UPDATE forms SET
    title = ?, description = ?, is_active = ?, is_public = ?, submission_limit = ?,
    allow_duplicate = ?, require_login = ?, expires_at = ?, updated_at = ?
WHERE id = ?
`

type UpdateFormParams struct {
	Title           string
	Description     sql.NullString
	IsActive        bool
	IsPublic        bool
	SubmissionLimit sql.NullInt64
	AllowDuplicate  bool
	RequireLogin    bool
	ExpiresAt       sql.NullTime
	UpdatedAt       time.Time
	ID              int64
}

func (q *Queries) UpdateForm(ctx context.Context, arg UpdateFormParams) error {
	_, err := q.db.ExecContext(ctx, updateForm,
		arg.Title,
		arg.Description,
		arg.IsActive,
		arg.IsPublic,
		arg.SubmissionLimit,
		arg.AllowDuplicate,
		arg.RequireLogin,
		arg.ExpiresAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const deleteForm = `DELETE FROM forms WHERE id = ?`

func (q *Queries) DeleteForm(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteForm, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
