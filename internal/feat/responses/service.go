package responses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/internal/feat/forms"
	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/database"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/model"
)

var (
	ErrFormUnavailable  = apperr.New(apperr.NotFound, "Form not found or inactive")
	ErrFormExpired      = apperr.New(apperr.NotFound, "Form has expired")
	ErrLoginRequired    = apperr.New(apperr.AuthenticationRequired, "Form requires authentication")
	ErrLimitReached     = apperr.New(apperr.CapacityExceeded, "Form submission limit reached")
	ErrDuplicate        = apperr.New(apperr.DuplicateSubmission, "Duplicate submission not allowed")
	ErrFieldNotInForm   = apperr.New(apperr.Validation, "Field does not belong to this form")
	ErrInvalidDateRange = apperr.New(apperr.Validation, "startDate must not be after endDate")
)

// Service defines the submission engine interface.
type Service interface {
	Start(ctx context.Context) error
	Submit(ctx context.Context, user *auth.User, sub Submission) (*Response, error)
	ListResponses(ctx context.Context, user *auth.User, formID int64) ([]*Response, error)
	ListResponsesInRange(ctx context.Context, user *auth.User, formID int64, start, end time.Time) ([]*Response, error)
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
	now        func() time.Time
}

// NewService creates a new responses service.
func NewService(dbProvider DBProvider, cfg *config.Config, log logger.Logger) Service {
	return &service{
		dbProvider: dbProvider,
		cfg:        cfg,
		log:        log,
		now:        model.Now,
	}
}

func (s *service) ensureQueries() {
	if s.queries == nil && s.dbProvider != nil {
		s.queries = queries.New(s.dbProvider.GetDB())
	}
}

func (s *service) Start(ctx context.Context) error {
	s.ensureQueries()
	sc := s.cfg.Submissions
	s.log.Infof("Responses service started (required fields: %v, require login: %v, reject expired: %v)",
		sc.EnforceRequired, sc.EnforceRequireLogin, sc.RejectExpired)
	return nil
}

// Submit validates sub against the form's policy and stores it with its
// entries. Every check and write runs in one transaction; any failure leaves
// no rows behind.
func (s *service) Submit(ctx context.Context, user *auth.User, sub Submission) (*Response, error) {
	s.ensureQueries()

	email := strings.TrimSpace(sub.RespondentEmail)
	name := strings.TrimSpace(sub.RespondentName)

	var resp *Response
	err := database.WithTx(ctx, s.dbProvider.GetDB(), func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		now := s.now()

		row, err := q.GetActiveForm(ctx, sub.FormID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFormUnavailable
			}
			return fmt.Errorf("cannot get form: %w", err)
		}
		form := forms.FromQueries(row)

		if s.cfg.Submissions.RejectExpired && form.IsExpired(now) {
			return ErrFormExpired
		}
		if form.RequiresAuth(s.cfg.Submissions.EnforceRequireLogin) && user == nil {
			return ErrLoginRequired
		}

		if form.SubmissionLimit != nil {
			count, err := q.CountResponsesByForm(ctx, form.ID)
			if err != nil {
				return fmt.Errorf("cannot count responses: %w", err)
			}
			if count >= int64(*form.SubmissionLimit) {
				return ErrLimitReached
			}
		}

		isDuplicate := false
		if email != "" {
			count, err := q.CountResponsesByFormAndEmail(ctx, form.ID, email)
			if err != nil {
				return fmt.Errorf("cannot count responses by email: %w", err)
			}
			if count > 0 && !form.AllowDuplicate {
				return ErrDuplicate
			}
			isDuplicate = count > 0
		}

		params := queries.CreateResponseParams{
			FormID:          form.ID,
			RespondentEmail: model.NullString(email),
			RespondentName:  model.NullString(name),
			IpAddress:       sub.IPAddress,
			UserAgent:       sub.UserAgent,
			SubmittedAt:     now,
			IsDuplicate:     isDuplicate,
		}
		if user != nil {
			params.UserID = sql.NullInt64{Int64: user.ID, Valid: true}
		}

		id, err := q.CreateResponse(ctx, params)
		if err != nil {
			return fmt.Errorf("cannot create response: %w", err)
		}

		resp = &Response{
			ID:              id,
			FormID:          form.ID,
			RespondentEmail: model.StringPtr(params.RespondentEmail),
			RespondentName:  model.StringPtr(params.RespondentName),
			IPAddress:       sub.IPAddress,
			UserAgent:       sub.UserAgent,
			SubmittedAt:     now,
			IsDuplicate:     isDuplicate,
			Entries:         []*Entry{},
		}
		if user != nil {
			uid := user.ID
			resp.UserID = &uid
		}

		answered := make(map[int64]bool, len(sub.Values))
		for _, v := range sub.Values {
			fieldID, err := strconv.ParseInt(v.Key, 10, 64)
			if err != nil {
				s.log.Debugf("Skipping non-numeric field key %q on form %d", v.Key, form.ID)
				continue
			}

			field, err := q.GetFormField(ctx, fieldID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.Newf(apperr.NotFound, "Field not found: %d", fieldID)
				}
				return fmt.Errorf("cannot get form field: %w", err)
			}
			if field.FormID != form.ID {
				return ErrFieldNotInForm
			}

			entryID, err := q.CreateResponseEntry(ctx, queries.CreateResponseEntryParams{
				ResponseID:  id,
				FormFieldID: fieldID,
				FieldValue:  v.Value,
			})
			if err != nil {
				return fmt.Errorf("cannot create response entry: %w", err)
			}

			resp.Entries = append(resp.Entries, &Entry{
				ID:          entryID,
				ResponseID:  id,
				FormFieldID: fieldID,
				FieldValue:  v.Value,
			})
			answered[fieldID] = true
		}

		if s.cfg.Submissions.EnforceRequired {
			return checkRequired(ctx, q, form.ID, answered)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debugf("Response %d stored for form %d with %d entries", resp.ID, resp.FormID, len(resp.Entries))
	return resp, nil
}

func checkRequired(ctx context.Context, q *queries.Queries, formID int64, answered map[int64]bool) error {
	fields, err := forms.ListFields(ctx, q, formID)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.IsRequired && !answered[f.ID] {
			return apperr.Newf(apperr.Validation, "Field '%s' is required", f.Label)
		}
	}
	return nil
}

func (s *service) ListResponses(ctx context.Context, user *auth.User, formID int64) ([]*Response, error) {
	s.ensureQueries()

	if err := s.authorize(ctx, user, formID); err != nil {
		return nil, err
	}

	rows, err := s.queries.ListResponsesByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("cannot list responses: %w", err)
	}
	return s.withEntries(ctx, formID, rows)
}

func (s *service) ListResponsesInRange(ctx context.Context, user *auth.User, formID int64, start, end time.Time) ([]*Response, error) {
	s.ensureQueries()

	if err := s.authorize(ctx, user, formID); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.queries.ListResponsesByFormAndDateRange(ctx, formID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("cannot list responses: %w", err)
	}
	return s.withEntries(ctx, formID, rows)
}

func (s *service) authorize(ctx context.Context, user *auth.User, formID int64) error {
	form, err := forms.LoadForm(ctx, s.queries, formID)
	if err != nil {
		return err
	}
	return forms.Authorize(user, forms.ActionViewResponses, form)
}

// withEntries converts rows and attaches their entries, loaded for the whole
// form in one query.
func (s *service) withEntries(ctx context.Context, formID int64, rows []queries.Response) ([]*Response, error) {
	result := make([]*Response, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	entries, err := s.queries.ListResponseEntriesByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("cannot list response entries: %w", err)
	}

	byResponse := make(map[int64][]*Entry, len(rows))
	for _, e := range entries {
		byResponse[e.ResponseID] = append(byResponse[e.ResponseID], entryFromQueries(e))
	}

	for _, row := range rows {
		r := responseFromQueries(row)
		if es, ok := byResponse[r.ID]; ok {
			r.Entries = es
		}
		result = append(result, r)
	}
	return result, nil
}
