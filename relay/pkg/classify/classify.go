package classify

import (
	"fmt"
	"strings"

	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

var cascades = map[string]*Cascade{
	taxonomy.CategoryAppointment:   appointmentCascade,
	taxonomy.CategoryCommunication: communicationCascade,
	taxonomy.CategoryNotification:  notificationCascade,
	taxonomy.CategoryShowroom:      showroomCascade,
	taxonomy.CategoryProfile:       profileCascade,
	taxonomy.CategoryStatus:        statusCascade,
}

// Classify resolves the payload of the named category to a tag from the
// closed taxonomy. It is a pure function over its input; a returned
// error is always a *models.ValidationError.
func Classify(category string, payload map[string]interface{}) (Classification, error) {
	c, ok := cascades[category]
	if !ok {
		return Classification{}, &models.ValidationError{
			Code:    models.CodeUnrecognizedShape,
			Field:   category,
			Message: fmt.Sprintf("%q is not a recognized category", category),
		}
	}

	cls, verr := c.Evaluate(payload)
	if verr != nil {
		return Classification{}, verr
	}
	return cls, nil
}

// fold normalizes an enum string for comparison. Upstream systems are
// inconsistent about casing and padding; the enumerations are not.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// enumFallback builds a terminal resolver over a closed enum table.
// A value outside the table is a hard rejection; the relay never guesses.
func enumFallback(field string, table map[string]string, noun string) func(map[string]interface{}) (string, *models.ValidationError) {
	return func(p map[string]interface{}) (string, *models.ValidationError) {
		raw, ok := value.String(p, field)
		if !ok {
			return "", &models.ValidationError{
				Code:    models.CodeUnrecognizedShape,
				Field:   field,
				Message: fmt.Sprintf("%s payload has no %s", noun, field),
			}
		}

		tag, known := table[fold(raw)]
		if !known {
			return "", &models.ValidationError{
				Code:    models.CodeUnknownEnum,
				Field:   field,
				Message: fmt.Sprintf("%s %q is outside the %s enumeration", field, raw, noun),
			}
		}
		return tag, nil
	}
}
