package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"interview-companion/pkg/models"
)

// RoleNamePattern allows job titles such as "C++ Developer" or "UI/UX Designer (Senior)"
var RoleNamePattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} .,&/+#()'-]{0,99}$`)

// ValidateRoleName validates that the role is a plausible job title
func ValidateRoleName(fl validator.FieldLevel) bool {
	role := strings.TrimSpace(fl.Field().String())
	return RoleNamePattern.MatchString(role)
}

// ValidateInterviewRound accepts technical, managerial and hr in any case
func ValidateInterviewRound(fl validator.FieldLevel) bool {
	_, ok := models.ParseRound(fl.Field().String())
	return ok
}

// RegisterValidators registers all custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("role_name", ValidateRoleName)
	v.RegisterValidation("interview_round", ValidateInterviewRound)
}

// New returns a validator with the custom validators registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// Describe renders validation errors as a short client-facing message
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "required_without":
			parts = append(parts, fmt.Sprintf("%s is required when %s is not set", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "interview_round":
			parts = append(parts, fmt.Sprintf("%s must be one of technical, managerial, hr", field))
		case "role_name":
			parts = append(parts, fmt.Sprintf("%s is not a valid role name", field))
		case "uuid4":
			parts = append(parts, fmt.Sprintf("%s must be a session id", field))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
