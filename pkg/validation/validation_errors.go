package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the names clients send.
var FieldLabels = map[string]string{
	"Name":         "name",
	"Email":        "email",
	"Password":     "password",
	"Role":         "role",
	"CompanyID":    "companyId",
	"CompanyName":  "companyName",
	"Title":        "title",
	"Description":  "description",
	"Requirements": "requirements",
	"Location":     "location",
	"JobID":        "jobId",
	"ResumeURL":    "resumeUrl",
	"Status":       "status",
	"ReviewStatus": "reviewStatus",
	"Bio":          "bio",
	"Website":      "website",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "objectid":
		return fmt.Sprintf("%s must be a valid id", label)
	case "company_id":
		return fmt.Sprintf("%s may only contain letters, digits, '-' and '_' (2-64 characters)", label)
	case "cert_type":
		return fmt.Sprintf("%s may only contain letters, digits, '-' and '_'", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	if fieldName == "" {
		return fieldName
	}
	return strings.ToLower(fieldName[:1]) + fieldName[1:]
}
