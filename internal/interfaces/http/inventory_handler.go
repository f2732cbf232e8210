package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// InventoryHandler resumen de stock y utilidades.
type InventoryHandler struct {
	svc *ledger.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *ledger.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Summary godoc
// @Summary      Resumen de inventario
// @Description  Stock y valor al costo por metal, utilidad realizada, gastos y utilidad neta.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(toSummaryResponse(h.svc.Engine().Summary()))
}
