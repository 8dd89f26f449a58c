package forms

import (
	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/pkg/fb/apperr"
)

// Action is something a user may attempt on a form.
type Action int

const (
	ActionUpdate Action = iota
	ActionDelete
	ActionViewResponses
)

func (a Action) String() string {
	switch a {
	case ActionUpdate:
		return "update this form"
	case ActionDelete:
		return "delete this form"
	case ActionViewResponses:
		return "view responses for this form"
	}
	return "access this form"
}

// Can reports whether user may perform action on form.
// Every action is reserved to the form's creator.
func Can(user *auth.User, action Action, form *Form) bool {
	if user == nil || form == nil {
		return false
	}
	switch action {
	case ActionUpdate, ActionDelete, ActionViewResponses:
		return user.ID == form.CreatorID
	}
	return false
}

// Authorize returns a PermissionDenied error when Can is false.
func Authorize(user *auth.User, action Action, form *Form) error {
	if Can(user, action, form) {
		return nil
	}
	return apperr.Newf(apperr.PermissionDenied, "You don't have permission to %s", action)
}
