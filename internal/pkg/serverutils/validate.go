package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"ai-gateway-be/internal/apperror"
)

var validate = validator.New()

// ParseAndValidate binds the JSON body into dst and runs struct
// validation. Failures surface as VALIDATION_ERROR so controllers can
// return them directly.
func ParseAndValidate(ctx *fiber.Ctx, dst interface{}) error {
	if err := ctx.BodyParser(dst); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return ValidateStruct(dst)
}

// ValidateStruct validates tagged fields on any request struct.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Validation("Invalid request")
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, describeFieldError(fe))
	}
	return apperror.Validation(strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
