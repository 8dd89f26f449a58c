package responses

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/internal/feat/forms"
	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/middleware"
	"github.com/formbase/formbase/pkg/fb/model"
	"github.com/formbase/formbase/pkg/fb/render"
	"github.com/go-chi/chi/v5"
)

// Handler serves the /responses API.
type Handler struct {
	service Service
	users   auth.Service
	limiter *rateLimiter
	log     logger.Logger
	cancel  context.CancelFunc
}

// NewHandler creates a new responses handler.
func NewHandler(service Service, users auth.Service, cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		users:   users,
		limiter: newRateLimiter(cfg.Submissions.RateLimit, cfg.Submissions.RateBurst),
		log:     log,
	}
}

// Start launches the sweeper of idle rate limiters.
func (h *Handler) Start(ctx context.Context) error {
	if !h.limiter.enabled() {
		h.log.Info("Submission rate limiting disabled")
		return nil
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.limiter.sweep(sweepCtx)

	h.log.Info("Responses handler started")
	return nil
}

// Stop halts the sweeper.
func (h *Handler) Stop(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// RegisterRoutes registers the submission and listing routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering responses routes")

	r.Route("/responses", func(r chi.Router) {
		r.With(h.limiter.Middleware, middleware.OptionalAuth(h.users)).
			Post("/submit/{formId}", h.HandleSubmit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.users))
			r.Get("/form/{formId}", h.HandleList)
			r.Get("/form/{formId}/date-range", h.HandleListInRange)
		})
	})
}

// HandleSubmit stores a response from the public internet. The body is a JSON
// object keyed by field id.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	formID, ok := model.ParseID(chi.URLParam(r, "formId"))
	if !ok {
		render.Error(w, r, h.log, ErrFormUnavailable)
		return
	}

	user, err := auth.CurrentUser(r.Context(), h.users)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		render.Error(w, r, h.log, err)
		return
	}

	values, err := DecodeValues(r.Body)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	query := r.URL.Query()
	sub := Submission{
		FormID:          formID,
		Values:          values,
		RespondentEmail: query.Get("respondentEmail"),
		RespondentName:  query.Get("respondentName"),
		IPAddress:       middleware.ClientIP(r),
		UserAgent:       r.UserAgent(),
	}

	if _, err := h.service.Submit(r.Context(), user, sub); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	render.Text(w, r, http.StatusOK, "Response submitted successfully")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, formID, err := h.ownerRequest(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	list, err := h.service.ListResponses(r.Context(), user, formID)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, list)
}

func (h *Handler) HandleListInRange(w http.ResponseWriter, r *http.Request) {
	user, formID, err := h.ownerRequest(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	query := r.URL.Query()
	start, err := parseDateParam("startDate", query.Get("startDate"))
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	end, err := parseDateParam("endDate", query.Get("endDate"))
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	list, err := h.service.ListResponsesInRange(r.Context(), user, formID, start, end)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, list)
}

func (h *Handler) ownerRequest(r *http.Request) (*auth.User, int64, error) {
	user, err := auth.CurrentUser(r.Context(), h.users)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, ErrLoginRequired
	}

	formID, ok := model.ParseID(chi.URLParam(r, "formId"))
	if !ok {
		return nil, 0, forms.ErrFormNotFound
	}
	return user, formID, nil
}

func parseDateParam(name, value string) (t time.Time, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return t, apperr.Newf(apperr.Validation, "%s is required", name)
	}
	t, err = model.ParseTimestamp(value)
	if err != nil {
		return t, apperr.Newf(apperr.Validation, "%s must be an ISO date-time", name)
	}
	return t, nil
}
