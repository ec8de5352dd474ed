package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into echo.Echo.Validator.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

var tagMessages = map[string]func(field, param string) string{
	"required": func(field, _ string) string { return field + " is required" },
	"max": func(field, param string) string {
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	},
}

// Validate reports every failing field in one message, e.g.
// "content is required; name must be at most 80 characters".
func (rv *requestValidator) Validate(i any) error {
	var ve validator.ValidationErrors
	if err := rv.v.Struct(i); !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, len(ve))
	for n, fe := range ve {
		field := strings.ToLower(fe.Field())
		if format, ok := tagMessages[fe.Tag()]; ok {
			msgs[n] = format(field, fe.Param())
		} else {
			msgs[n] = fmt.Sprintf("%s failed %s", field, fe.Tag())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
