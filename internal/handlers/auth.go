package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ESRAILHAQUE/maids-backend/internal/middleware"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/account"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type AuthHandler struct {
	Accounts *account.Service
}

type emailReq struct {
	Email string `json:"email"`
}

type sessionResp struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req account.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated,
		"Registration successful. Please check your email to verify your account.",
		sessionResp{User: u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req account.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, token, err := h.Accounts.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Login successful", sessionResp{User: u, Token: token})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	u, err := h.Accounts.VerifyEmail(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Email verified successfully", sessionResp{User: u})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req emailReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Accounts.ResendVerification(c.UserContext(), req.Email); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Verification email sent successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req emailReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Accounts.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, account.ForgotPasswordMessage, nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req account.ResetPasswordInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, token, err := h.Accounts.ResetPassword(c.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Password reset successfully", sessionResp{User: u, Token: token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "User profile retrieved successfully", middleware.CurrentUser(c))
}

// Logout is a client-side operation; tokens are stateless.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "Logged out successfully", nil)
}
