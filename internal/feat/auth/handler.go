package auth

import (
	"context"
	"net/http"

	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/middleware"
	"github.com/formbase/formbase/pkg/fb/model"
	"github.com/formbase/formbase/pkg/fb/render"
	"github.com/go-chi/chi/v5"
)

// Handler handles authentication routes.
type Handler struct {
	service Service
	log     logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers authentication routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering auth routes")

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/register", h.HandleRegister)
	})
}

// HandleLogin exchanges a username and password for a bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	session, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	h.log.Infof("User authenticated: %s", session.User.Username)
	render.OK(w, r, toLoginResponse(session))
}

// HandleRegister creates a USER account.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	if _, err := h.service.Register(r.Context(), req); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	render.Text(w, r, http.StatusOK, "User registered successfully!")
}

// CurrentUser returns the user authenticated on ctx, or nil for an anonymous
// request. A token whose user no longer exists yields ErrUserNotFound.
func CurrentUser(ctx context.Context, service Service) (*User, error) {
	raw := middleware.GetUserID(ctx)
	if raw == "" {
		return nil, nil
	}

	id, ok := model.ParseID(raw)
	if !ok {
		return nil, ErrUserNotFound
	}

	return service.GetUser(ctx, id)
}
