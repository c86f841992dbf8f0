package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
)

// AuthHandler maneja login y restablecimiento de contraseña.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Unable to log in with provided credentials."})
		}
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RequestPasswordReset godoc
// @Summary      Pedir restablecimiento de contraseña
// @Description  Envía por correo un token de un solo uso.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /reset-password/ [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := h.uc.RequestPasswordReset(c.UserContext(), in); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: auth.MsgEmailNotFound})
		}
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Email sent"})
}

// ConfirmPasswordReset godoc
// @Summary      Confirmar nueva contraseña
// @Description  El token recibido por correo va en Authorization: Bearer <token>.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer <token de reset>"
// @Param        body  body  dto.PasswordResetConfirmRequest  true  "new_password"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /reset-password/ [patch]
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return resetError(c, "no authorization provided")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return resetError(c, "Invalid authorization header")
	}
	if parts[0] != "Bearer" {
		return resetError(c, "no Bearer keyword")
	}

	var in dto.PasswordResetConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if in.NewPassword == "" {
		return resetError(c, "new_password not provided")
	}

	if err := h.uc.ConfirmPasswordReset(c.UserContext(), parts[1], in); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: auth.MsgEmailNotFound})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Password changed"})
}

// resetError los fallos de autenticación del reset responden 400, no 401.
func resetError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RESET_REQUEST", Message: msg})
}
