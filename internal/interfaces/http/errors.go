package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/access"
)

// MsgInternal mensaje fijo de los 500.
const MsgInternal = "Internal server error."

// respondError traduce errores de dominio a la respuesta HTTP estándar.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var denied *access.DeniedError
	var tokenErr *auth.TokenError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message(), Fields: verr.Fields})
	case errors.As(err, &denied):
		return denyResponse(c, denied.Decision)
	case errors.As(err, &tokenErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: tokenErr.Message})
	case errors.Is(err, domain.ErrTokenUsed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOKEN_USED", Message: domain.ErrTokenUsed.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Not found."})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Authentication credentials were not provided."})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "You do not have permission to perform this action."})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	// El detalle queda en el log de la petición (RequestLogger), nunca en la respuesta.
	c.Locals(LocalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: MsgInternal})
}

// denyResponse 401 o 403 según el resultado del predicado.
func denyResponse(c *fiber.Ctx, d access.Decision) error {
	if d.Outcome == access.DenyUnauthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: d.Message})
	}
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: d.Message})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageFromQuery lee limit/offset con los valores por defecto y topes de la API.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
