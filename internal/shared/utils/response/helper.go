package response

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// FieldErrors converts validator binding errors into a field->message map
// for the Errors payload. Non-validator errors come back as a single
// "request" entry.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["request"] = err.Error()
		return out
	}

	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "this field is required"
		case "min":
			out[fe.Field()] = "value is below the allowed minimum (" + fe.Param() + ")"
		case "max":
			out[fe.Field()] = "value is above the allowed maximum (" + fe.Param() + ")"
		case "oneof":
			out[fe.Field()] = "value must be one of: " + fe.Param()
		case "uuid":
			out[fe.Field()] = "value must be a valid UUID"
		default:
			out[fe.Field()] = "failed validation rule: " + fe.Tag()
		}
	}

	return out
}
