package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldRules maps "Field.tag" of a failed validation to the domain error it
// surfaces as.
type fieldRules map[string]error

// check validates in and returns the domain error for the first failing field.
// Failures without a rule surface as domain.ErrInvalidInput naming the field.
func check(in any, rules fieldRules) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	for _, fe := range verrs {
		if mapped, ok := rules[fe.Field()+"."+fe.Tag()]; ok {
			return mapped
		}
	}
	fe := verrs[0]
	return fmt.Errorf("%w: %s failed %s", domain.ErrInvalidInput, strings.ToLower(fe.Field()), fe.Tag())
}
