package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ESRAILHAQUE/maids-backend/internal/middleware"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/booking"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type BookingHandler struct {
	Bookings *booking.Service
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req booking.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var owner *uuid.UUID
	if u := middleware.CurrentUser(c); u != nil {
		id := u.ID
		owner = &id
	}
	b, err := h.Bookings.Create(c.UserContext(), req, owner)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, "Booking created successfully", b)
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	list, err := h.Bookings.List(c.UserContext(), booking.ListQuery{
		Status:  c.Query("status"),
		Payment: c.Query("payment"),
		Search:  c.Query("search"),
	})
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Bookings retrieved successfully", list)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	b, err := h.Bookings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Booking retrieved successfully", b)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req statusReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	b, err := h.Bookings.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Booking status updated successfully", b)
}

func (h *BookingHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req booking.PaymentInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	b, err := h.Bookings.UpdatePayment(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Payment status updated successfully", b)
}

func (h *BookingHandler) AssignStaff(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req booking.AssignStaffInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	b, err := h.Bookings.AssignStaff(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Staff assigned successfully", b)
}

func (h *BookingHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req booking.UpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	b, err := h.Bookings.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Booking updated successfully", b)
}

func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Bookings.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
