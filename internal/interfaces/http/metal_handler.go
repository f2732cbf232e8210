package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// MetalHandler alta, precios y lotes de metales.
type MetalHandler struct {
	svc *ledger.Service
}

// NewMetalHandler construye el handler.
func NewMetalHandler(svc *ledger.Service) *MetalHandler {
	return &MetalHandler{svc: svc}
}

// pathParam devuelve el parámetro de ruta decodificado (los nombres pueden traer espacios o no-ASCII).
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// List godoc
// @Summary      Listar metales
// @Tags         metals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MetalResponse
// @Router       /api/metals [get]
func (h *MetalHandler) List(c *fiber.Ctx) error {
	metals := h.svc.Engine().Metals()
	out := make([]dto.MetalResponse, 0, len(metals))
	for _, m := range metals {
		out = append(out, toMetalResponse(m))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar metal
// @Tags         metals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMetalRequest  true  "Datos del metal"
// @Success      201   {object}  dto.MetalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/metals [post]
func (h *MetalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMetalRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.svc.AddMetal(c.UserContext(), ledger.MetalInput{
		Name:             in.Name,
		Unit:             in.Unit,
		DefaultBuyPrice:  in.DefaultBuyPrice,
		DefaultSalePrice: in.DefaultSalePrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMetalResponse(m))
}

// Get godoc
// @Summary      Obtener metal por nombre
// @Tags         metals
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del metal"
// @Success      200   {object}  dto.MetalResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/metals/{name} [get]
func (h *MetalHandler) Get(c *fiber.Ctx) error {
	m, err := h.svc.Engine().Metal(pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMetalResponse(m))
}

// Delete godoc
// @Summary      Eliminar metal
// @Description  Los lotes se descartan; el historial de transacciones se conserva con el nombre del metal.
// @Tags         metals
// @Security     Bearer
// @Param        name  path  string  true  "Nombre del metal"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/metals/{name} [delete]
func (h *MetalHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteMetal(c.UserContext(), pathParam(c, "name")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPrices godoc
// @Summary      Actualizar precios sugeridos
// @Tags         metals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                 true  "Nombre del metal"
// @Param        body  body  dto.SetPricesRequest   true  "Precios"
// @Success      200   {object}  dto.MetalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/metals/{name}/prices [put]
func (h *MetalHandler) SetPrices(c *fiber.Ctx) error {
	var in dto.SetPricesRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.svc.SetPrices(c.UserContext(), pathParam(c, "name"), in.DefaultBuyPrice, in.DefaultSalePrice)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMetalResponse(m))
}

// Lots godoc
// @Summary      Lotes del metal en orden FIFO
// @Tags         metals
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del metal"
// @Success      200   {array}   dto.LotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/metals/{name}/lots [get]
func (h *MetalHandler) Lots(c *fiber.Ctx) error {
	lots, err := h.svc.Engine().Lots(pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponses(lots))
}
