package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

// ErrorHandler renders every error as the JSON envelope. Unknown errors
// become 500s whose message is hidden in production.
func ErrorHandler(logger *zap.Logger, production bool) fiber.ErrorHandler {
	logger = logger.Named("ErrorHandler")

	return func(c *fiber.Ctx, err error) error {
		if ae, ok := apperr.As(err); ok {
			status := ae.Status()
			if status >= fiber.StatusInternalServerError {
				logger.Error("Request failed", zap.String("path", c.Path()), zap.String("kind", string(ae.Kind)), zap.Error(err))
			}
			msg := ae.Message
			if ae.Kind == apperr.KindInternal && !production && ae.Err != nil {
				msg = ae.Err.Error()
			}
			return utils.Fail(c, status, msg, ae.Fields)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.Fail(c, fe.Code, fe.Message, nil)
		}

		logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		msg := err.Error()
		if production {
			msg = "Something went wrong!"
		}
		return utils.Fail(c, fiber.StatusInternalServerError, msg, nil)
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return utils.Fail(c, fiber.StatusNotFound, "Route "+c.OriginalURL()+" not found", nil)
}
