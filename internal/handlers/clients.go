package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ESRAILHAQUE/maids-backend/internal/services/clients"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type ClientHandler struct {
	Clients *clients.Service
}

func (h *ClientHandler) Summaries(c *fiber.Ctx) error {
	list, err := h.Clients.Summaries(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Clients retrieved successfully", list)
}
