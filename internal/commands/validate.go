package commands

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Discord's rule for chat command, group and option names.
var slashName = regexp.MustCompile(`^[-_\p{L}\p{N}]{1,32}$`)

type entry struct {
	Name        string `validate:"required,slashname"`
	Description string `validate:"required,max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slashname", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return slashName.MatchString(s) && s == strings.ToLower(s)
	})
	return v
}

func (r *Registry) check(kind, name, description string) error {
	if err := r.validate.Struct(entry{Name: name, Description: description}); err != nil {
		return errors.Wrapf(err, "invalid %s %q", kind, name)
	}
	return nil
}
