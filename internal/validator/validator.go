package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/studyswaps/learning-service/internal/models"
)

// Validator wraps go-playground/validator with the custom rules used by request payloads.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator with custom rules registered once.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Var validates a single value against a tag.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("key_stage", validateKeyStage)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("not_blank", validateNotBlank)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateKeyStage(fl validator.FieldLevel) bool {
	return models.KeyStage(fl.Field().String()).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
