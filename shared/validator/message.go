package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":      "{field} is required",
		"gte":           "{field} must be greater than or equal to {param}",
		"lte":           "{field} must be less than or equal to {param}",
		"oneof":         "{field} must be one of {param}",
		"max":           "{field} must be at most {param} characters",
		"min":           "{field} must be at least {param} characters",
		"uuid":          "{field} must be a valid id",
		"username":      "{field} must be 3 to 30 letters, digits or underscores",
		"localdatetime": "{field} must use the format yyyy-MM-ddTHH:mm:ss",
		"mimetypes":     "{field} must be one of {param}",
		"maxfilesize":   "{field} must not exceed {param} MB",
	}
)

// message renders the first failed rule with a known template.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		template := messages[valErr.Tag()]
		if template == "" {
			continue
		}

		return strings.NewReplacer("{field}", strings.ToLower(valErr.Field()), "{param}", valErr.Param()).Replace(template)
	}

	return valErrors.Error()
}
