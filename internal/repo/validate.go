package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkRequired runs the struct tags of v and folds field errors into ErrValidation.
func checkRequired(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}

// checkRequiredValue validates a single optional patch field.
func checkRequiredValue(name string, v *string) error {
	if v == nil {
		return nil
	}
	if err := validate.Var(*v, "required"); err != nil {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	return nil
}
