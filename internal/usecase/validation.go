package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/lead-engine/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRawLead only checks presence. Unknown sources, services or
// locations and odd timestamps are scored, not rejected.
func ValidateRawLead(raw entity.RawLead) []ValidationError {
	var errors []ValidationError

	required := []struct {
		field string
		value string
	}{
		{"name", raw.Name},
		{"phone", raw.Phone},
		{"source", raw.Source},
		{"service_interest", raw.ServiceInterest},
		{"location", raw.Location},
		{"timestamp", raw.Timestamp},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errors = append(errors, ValidationError{r.field, "is required"})
		}
	}

	return errors
}

func joinValidationErrors(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
