package auth

import (
	"errors"

	"github.com/formbase/formbase/pkg/fb/validation"
)

func containsField(err error, field string) bool {
	var errs validation.ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	return len(errs.ForField(field)) > 0
}
