package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Palpatine0/TalkThrough/internal/pkg/apperror"
	"github.com/Palpatine0/TalkThrough/internal/pkg/logger"
)

// ErrorHandlerMiddleware maps AppErrors to their HTTP status and shields
// everything else behind a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.From(err); ok {
			return ctx.Status(appErr.Status).JSON(appErr)
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Internal server error",
			"status": fiber.StatusInternalServerError,
		})
	}
}
