package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Publicar producto(s)
// @Description  Acepta un objeto o un array. El array se guarda completo o no se guarda nada.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Producto (o array de productos)"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /products/ [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	providerID := GetUserID(c)
	body := bytes.TrimSpace(c.Body())
	decode := c.App().Config().JSONDecoder

	if len(body) > 0 && body[0] == '[' {
		var in []dto.CreateProductRequest
		if err := decode(body, &in); err != nil {
			return invalidBody(c)
		}
		out, err := h.uc.CreateBatch(c.UserContext(), providerID, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}

	var in dto.CreateProductRequest
	if err := decode(body, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), providerID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  Anónimos y clientes solo ven productos abiertos a la venta.
// @Tags         products
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /products/ [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.UserContext(), GetRole(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Feed godoc
// @Summary      Catálogo XML
// @Description  Productos abiertos a la venta en XML.
// @Tags         products
// @Produce      xml
// @Success      200
// @Router       /products/feed.xml [get]
func (h *ProductHandler) Feed(c *fiber.Ctx) error {
	out, err := h.uc.Feed(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}
