package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ESRAILHAQUE/maids-backend/internal/services/staff"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type StaffHandler struct {
	Staff *staff.Service
}

func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.Staff.List(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Staff list retrieved", list)
}

func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req staff.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	m, err := h.Staff.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, "Staff member created", m)
}

func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req staff.UpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	m, err := h.Staff.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Staff member updated", m)
}

type activeReq struct {
	Active bool `json:"active"`
}

func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req activeReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	m, err := h.Staff.SetActive(c.UserContext(), id, req.Active)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Staff member updated", m)
}

func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	m, err := h.Staff.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Staff member deleted", m)
}
