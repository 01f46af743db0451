package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// jsonNames maps DTO field names to their wire names for error messages.
var jsonNames = map[string]string{
	"Event":        "event",
	"PaymentID":    "paymentId",
	"OrderID":      "orderId",
	"Signature":    "signature",
	"Amount":       "amount",
	"ProgramTitle": "program_title",
	"BaseAmount":   "base_amount",
	"UserName":     "user_name",
	"UserEmail":    "user_email",
	"Name":         "name",
	"Email":        "email",
	"Phone":        "phone",
	"Address":      "address",
}

// formatValidationError converts validator errors into the "invalid request:"
// messages the SPA shows inline. Only the first violation is reported.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field, ok := jsonNames[fe.Field()]
			if !ok {
				field = strings.ToLower(fe.Field())
			}

			switch fe.Tag() {
			case "required", "required_if":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "email":
				return "invalid request: " + field + " must be a valid email address"
			case "min":
				return "invalid request: " + field + " is too short"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "oneof":
				return "invalid request: " + field + " is invalid"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
