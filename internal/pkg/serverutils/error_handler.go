package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/pkg/logger"
)

// NewErrorHandler builds the fiber error handler that renders every
// failure in the standard error envelope. Internal detail is logged,
// never echoed to clients in production.
func NewErrorHandler(log logger.ILogger, isProd bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				log.Error("http", appErr.Message, map[string]interface{}{
					"code":   appErr.Code,
					"path":   ctx.Path(),
					"method": ctx.Method(),
					"cause":  causeString(appErr),
				})
			}
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := apperror.CodeInternalError
			if fiberErr.Code == fiber.StatusNotFound {
				code = apperror.CodeNotFound
			}
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(code, fiberErr.Message))
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})

		message := "Internal server error"
		if !isProd {
			message = err.Error()
		}
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(apperror.CodeInternalError, message))
	}
}

func causeString(appErr *apperror.Error) string {
	if appErr.Cause == nil {
		return ""
	}
	return appErr.Cause.Error()
}
