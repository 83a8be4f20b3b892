package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// SuccessResponse wraps payloads in the standard success envelope.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
}

// ErrorResponse renders the standard error envelope. Clients branch on
// the stable machine code, not the human message.
func ErrorResponse(code string, message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	}
}
