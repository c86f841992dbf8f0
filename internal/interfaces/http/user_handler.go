package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// UserHandler maneja registro y consulta de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, password, email, is_provider"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /users/ [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Param        role    query  string  false  "provider | customer"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.UserListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /users/ [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var role entity.Role
	if raw := c.Query("role"); raw != "" {
		r, ok := entity.ParseRole(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "role must be provider or customer",
				Fields:  map[string][]string{"role": {"role must be provider or customer"}},
			})
		}
		role = r
	}
	page := pageFromQuery(c)
	out, err := h.uc.List(c.UserContext(), role, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de usuario con sus productos
// @Tags         users
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /users/{id}/ [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.JSON(out)
}
