package forms

import (
	"errors"
	"net/http"

	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/middleware"
	"github.com/formbase/formbase/pkg/fb/model"
	"github.com/formbase/formbase/pkg/fb/render"
	"github.com/go-chi/chi/v5"
)

// Handler serves the /forms API.
type Handler struct {
	service Service
	users   auth.Service
	log     logger.Logger
}

// NewHandler creates a new forms handler.
func NewHandler(service Service, users auth.Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		users:   users,
		log:     log,
	}
}

// RegisterRoutes registers the form catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering forms routes")

	r.Route("/forms", func(r chi.Router) {
		r.Get("/public", h.HandleListPublic)
		r.Get("/public/{id}", h.HandleGetPublic)
		r.Get("/{id}", h.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.users))
			r.Post("/", h.HandleCreate)
			r.Get("/my-forms", h.HandleListMine)
			r.Put("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
		})
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	var in FormInput
	if err := render.DecodeJSON(r, &in); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	form, err := h.service.CreateForm(r.Context(), user, in)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, form)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	id, ok := model.ParseID(chi.URLParam(r, "id"))
	if !ok {
		render.Error(w, r, h.log, ErrFormNotFound)
		return
	}

	var in FormInput
	if err := render.DecodeJSON(r, &in); err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	form, err := h.service.UpdateForm(r.Context(), user, id, in)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, form)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	id, ok := model.ParseID(chi.URLParam(r, "id"))
	if !ok {
		render.Error(w, r, h.log, ErrFormNotFound)
		return
	}

	if err := h.service.DeleteForm(r.Context(), user, id); err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.Text(w, r, http.StatusOK, "Form deleted successfully")
}

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}

	forms, err := h.service.ListMyForms(r.Context(), user)
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, forms)
}

func (h *Handler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	forms, err := h.service.ListPublicForms(r.Context())
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, forms)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseID(chi.URLParam(r, "id"))
	if !ok {
		render.NotFound(w, r)
		return
	}
	h.writeForm(w, r, func() (*Form, error) { return h.service.GetForm(r.Context(), id) })
}

func (h *Handler) HandleGetPublic(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseID(chi.URLParam(r, "id"))
	if !ok {
		render.NotFound(w, r)
		return
	}
	h.writeForm(w, r, func() (*Form, error) { return h.service.GetPublicForm(r.Context(), id) })
}

// writeForm renders a single form, answering an absent one with an empty 404.
func (h *Handler) writeForm(w http.ResponseWriter, r *http.Request, get func() (*Form, error)) {
	form, err := get()
	if errors.Is(err, ErrFormNotFound) {
		render.NotFound(w, r)
		return
	}
	if err != nil {
		render.Error(w, r, h.log, err)
		return
	}
	render.OK(w, r, form)
}

func (h *Handler) currentUser(r *http.Request) (*auth.User, error) {
	user, err := auth.CurrentUser(r.Context(), h.users)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrLoginNeeded
	}
	return user, nil
}
