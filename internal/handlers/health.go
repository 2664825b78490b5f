package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

func Health(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "Server is running", nil)
}
