// Package render writes the HTTP responses shared by every handler.
package render

import (
	"net/http"

	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/go-chi/render"
)

// genericMessage replaces the text of errors that carry no kind, which may
// contain driver or filesystem details.
const genericMessage = "cannot process request"

// OK writes v as JSON with status 200.
func OK(w http.ResponseWriter, r *http.Request, v any) {
	JSON(w, r, http.StatusOK, v)
}

// JSON writes v as JSON with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// Text writes msg as text/plain with the given status.
func Text(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.PlainText(w, r, msg)
}

// NotFound writes an empty 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

// Error reports err as "400 Error: <message>".
// Classified errors keep their message; anything else is logged and replaced
// by a generic message.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	msg := Message(err)
	if _, ok := apperr.KindOf(err); ok {
		log.Debugf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	} else {
		log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	Text(w, r, http.StatusBadRequest, "Error: "+msg)
}

// Message returns the client-facing text for err.
func Message(err error) string {
	if _, ok := apperr.KindOf(err); ok {
		return err.Error()
	}
	return genericMessage
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apperr.New(apperr.Validation, "invalid JSON body")
	}
	return nil
}
