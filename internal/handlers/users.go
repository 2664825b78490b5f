package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ESRAILHAQUE/maids-backend/internal/middleware"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/account"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type UserHandler struct {
	Accounts *account.Service
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u, err := h.Accounts.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "User profile retrieved successfully", u)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req account.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := h.Accounts.UpdateProfile(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "User profile updated successfully", u)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Accounts.List(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) ListPending(c *fiber.Ctx) error {
	users, err := h.Accounts.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Pending users retrieved successfully", users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.Accounts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "User retrieved successfully", u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Accounts.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type lifecycleReq struct {
	Reason string `json:"reason"`
}

var lifecycleMessages = map[models.LifecycleAction]string{
	models.ActionApprove:    "User approved successfully",
	models.ActionSuspend:    "User suspended successfully",
	models.ActionUnsuspend:  "User unsuspended successfully",
	models.ActionBan:        "User banned successfully",
	models.ActionActivate:   "User activated successfully",
	models.ActionDeactivate: "User deactivated successfully",
}

// Lifecycle returns the handler for one account action.
func (h *UserHandler) Lifecycle(action models.LifecycleAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var req lifecycleReq
		if err := parseBody(c, &req); err != nil {
			return err
		}
		u, err := h.Accounts.Apply(c.UserContext(), id, action, req.Reason)
		if err != nil {
			return err
		}
		return utils.Success(c, fiber.StatusOK, lifecycleMessages[action], u)
	}
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return uuid.Nil
}
