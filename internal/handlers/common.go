package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
)

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id: " + raw)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
