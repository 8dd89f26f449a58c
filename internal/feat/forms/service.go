package forms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/database"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/model"
)

var (
	ErrFormNotFound = apperr.New(apperr.NotFound, "Form not found")
	ErrLoginNeeded  = apperr.New(apperr.AuthenticationRequired, "Authentication required")
)

// Service defines the form catalog interface.
type Service interface {
	Start(ctx context.Context) error
	CreateForm(ctx context.Context, user *auth.User, in FormInput) (*Form, error)
	UpdateForm(ctx context.Context, user *auth.User, id int64, in FormInput) (*Form, error)
	DeleteForm(ctx context.Context, user *auth.User, id int64) error
	ListMyForms(ctx context.Context, user *auth.User) ([]*Form, error)
	ListPublicForms(ctx context.Context) ([]*Form, error)
	GetForm(ctx context.Context, id int64) (*Form, error)
	GetPublicForm(ctx context.Context, id int64) (*Form, error)
}

// DBProvider provides access to the database.
type DBProvider interface {
	GetDB() *sql.DB
}

type service struct {
	dbProvider DBProvider
	queries    *queries.Queries
	cfg        *config.Config
	log        logger.Logger
}

// NewService creates a new forms service.
func NewService(dbProvider DBProvider, cfg *config.Config, log logger.Logger) Service {
	return &service{
		dbProvider: dbProvider,
		cfg:        cfg,
		log:        log,
	}
}

func (s *service) ensureQueries() {
	if s.queries == nil && s.dbProvider != nil {
		s.queries = queries.New(s.dbProvider.GetDB())
	}
}

func (s *service) Start(ctx context.Context) error {
	s.ensureQueries()
	s.log.Info("Forms service started")
	return nil
}

func (s *service) CreateForm(ctx context.Context, user *auth.User, in FormInput) (*Form, error) {
	s.ensureQueries()

	if user == nil {
		return nil, ErrLoginNeeded
	}

	in.Normalize()
	if err := in.Validate(true); err != nil {
		return nil, err
	}

	now := model.Now()
	params := queries.CreateFormParams{
		Title:           *in.Title,
		Description:     model.NullStringPtr(in.Description),
		CreatorID:       user.ID,
		IsActive:        boolOr(in.IsActive, true),
		IsPublic:        boolOr(in.IsPublic, true),
		SubmissionLimit: model.NullInt64Ptr(in.SubmissionLimit),
		AllowDuplicate:  boolOr(in.AllowDuplicate, true),
		RequireLogin:    boolOr(in.RequireLogin, false),
		ExpiresAt:       model.NullTimeFromPtr(in.ExpiresAt.Ptr()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var id int64
	err := database.WithTx(ctx, s.dbProvider.GetDB(), func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)

		var err error
		id, err = q.CreateForm(ctx, params)
		if err != nil {
			return fmt.Errorf("cannot create form: %w", err)
		}

		if in.Fields == nil {
			return nil
		}
		for _, f := range *in.Fields {
			if _, err := q.CreateFormField(ctx, createFieldParams(id, f)); err != nil {
				return fmt.Errorf("cannot create form field: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Form %d created by %s", id, user.Username)
	return s.load(ctx, id)
}

func (s *service) UpdateForm(ctx context.Context, user *auth.User, id int64, in FormInput) (*Form, error) {
	s.ensureQueries()

	in.Normalize()

	err := database.WithTx(ctx, s.dbProvider.GetDB(), func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)

		form, err := LoadForm(ctx, q, id)
		if err != nil {
			return err
		}
		if err := Authorize(user, ActionUpdate, form); err != nil {
			return err
		}
		if err := in.Validate(false); err != nil {
			return err
		}

		params := queries.UpdateFormParams{
			Title:           form.Title,
			Description:     model.NullStringPtr(in.Description),
			IsActive:        boolOr(in.IsActive, form.IsActive),
			IsPublic:        boolOr(in.IsPublic, form.IsPublic),
			SubmissionLimit: model.NullInt64Ptr(in.SubmissionLimit),
			AllowDuplicate:  boolOr(in.AllowDuplicate, form.AllowDuplicate),
			RequireLogin:    boolOr(in.RequireLogin, form.RequireLogin),
			ExpiresAt:       model.NullTimeFromPtr(in.ExpiresAt.Ptr()),
			UpdatedAt:       model.Now(),
			ID:              id,
		}
		if in.Title != nil {
			params.Title = *in.Title
		}

		if err := q.UpdateForm(ctx, params); err != nil {
			return fmt.Errorf("cannot update form: %w", err)
		}

		if in.Fields != nil {
			return reconcileFields(ctx, q, id, *in.Fields)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Form %d updated by %s", id, user.Username)
	return s.load(ctx, id)
}

// reconcileFields makes the stored field set of formID match inputs.
// Inputs with an id update that field, inputs without one are inserted and
// stored fields not listed are deleted together with their entries.
func reconcileFields(ctx context.Context, q *queries.Queries, formID int64, inputs []FieldInput) error {
	stored, err := q.ListFormFieldsByForm(ctx, formID)
	if err != nil {
		return fmt.Errorf("cannot list form fields: %w", err)
	}

	existing := make(map[int64]bool, len(stored))
	for _, f := range stored {
		existing[f.ID] = true
	}

	kept := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if in.ID == nil {
			if _, err := q.CreateFormField(ctx, createFieldParams(formID, in)); err != nil {
				return fmt.Errorf("cannot create form field: %w", err)
			}
			continue
		}

		if !existing[*in.ID] {
			return apperr.Newf(apperr.Validation, "Field %d does not belong to this form", *in.ID)
		}
		if err := q.UpdateFormField(ctx, updateFieldParams(formID, *in.ID, in)); err != nil {
			return fmt.Errorf("cannot update form field: %w", err)
		}
		kept[*in.ID] = true
	}

	for _, f := range stored {
		if kept[f.ID] {
			continue
		}
		if err := q.DeleteFormField(ctx, f.ID, formID); err != nil {
			return fmt.Errorf("cannot delete form field: %w", err)
		}
	}

	return nil
}

func (s *service) DeleteForm(ctx context.Context, user *auth.User, id int64) error {
	s.ensureQueries()

	form, err := LoadForm(ctx, s.queries, id)
	if err != nil {
		return err
	}
	if err := Authorize(user, ActionDelete, form); err != nil {
		return err
	}

	if _, err := s.queries.DeleteForm(ctx, id); err != nil {
		return fmt.Errorf("cannot delete form: %w", err)
	}

	s.log.Infof("Form %d deleted by %s", id, user.Username)
	return nil
}

func (s *service) ListMyForms(ctx context.Context, user *auth.User) ([]*Form, error) {
	s.ensureQueries()

	if user == nil {
		return nil, ErrLoginNeeded
	}

	rows, err := s.queries.ListActiveFormsByCreator(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot list forms: %w", err)
	}
	return s.aggregates(ctx, rows)
}

func (s *service) ListPublicForms(ctx context.Context) ([]*Form, error) {
	s.ensureQueries()

	rows, err := s.queries.ListPublicActiveForms(ctx, model.Now())
	if err != nil {
		return nil, fmt.Errorf("cannot list public forms: %w", err)
	}
	return s.aggregates(ctx, rows)
}

func (s *service) GetForm(ctx context.Context, id int64) (*Form, error) {
	s.ensureQueries()

	row, err := s.queries.GetActiveForm(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("cannot get form: %w", err)
	}
	return s.aggregate(ctx, row)
}

func (s *service) GetPublicForm(ctx context.Context, id int64) (*Form, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.IsPublic {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// load returns the aggregate of form id regardless of its active flag.
func (s *service) load(ctx context.Context, id int64) (*Form, error) {
	row, err := s.queries.GetForm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get form: %w", err)
	}
	return s.aggregate(ctx, row)
}

func (s *service) aggregates(ctx context.Context, rows []queries.Form) ([]*Form, error) {
	forms := make([]*Form, 0, len(rows))
	for _, row := range rows {
		f, err := s.aggregate(ctx, row)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func (s *service) aggregate(ctx context.Context, row queries.Form) (*Form, error) {
	form := FromQueries(row)

	fields, err := ListFields(ctx, s.queries, form.ID)
	if err != nil {
		return nil, err
	}
	form.Fields = fields

	count, err := s.queries.CountResponsesByForm(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot count responses: %w", err)
	}
	form.ResponseCount = count

	return form, nil
}

// ListFields returns the fields of formID ascending by fieldOrder, then id.
func ListFields(ctx context.Context, q *queries.Queries, formID int64) ([]*Field, error) {
	rows, err := q.ListFormFieldsByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("cannot list form fields: %w", err)
	}

	fields := make([]*Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, FieldFromQueries(row))
	}
	return fields, nil
}

// LoadForm loads form id whatever its active flag, mapping a missing row to ErrFormNotFound.
func LoadForm(ctx context.Context, q *queries.Queries, id int64) (*Form, error) {
	row, err := q.GetForm(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("cannot get form: %w", err)
	}
	return FromQueries(row), nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
