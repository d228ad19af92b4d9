package employee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileInput carries the profile fields shared by NewEmployee and SetProfile.
type ProfileInput struct {
	Name   string  `validate:"required,max=64"`
	Age    int     `validate:"gte=0,lte=150"`
	Remark *string `validate:"omitempty,max=256"`
}

type AddressInput struct {
	Country string  `validate:"required,max=64"`
	Street  string  `validate:"required,max=128"`
	Remark  *string `validate:"omitempty,max=256"`
}

func validateInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return domainagg.NewError(domainagg.CodeValidation, op, strings.Join(parts, "; "), err)
}
