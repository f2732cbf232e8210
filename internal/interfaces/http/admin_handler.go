package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// AdminHandler operaciones de mantenimiento (solo admin).
type AdminHandler struct {
	svc *ledger.Service
}

// NewAdminHandler construye el handler.
func NewAdminHandler(svc *ledger.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Backup godoc
// @Summary      Generar respaldo del libro
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.BackupResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/backup [post]
func (h *AdminHandler) Backup(c *fiber.Ctx) error {
	path, err := h.svc.Backup(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BackupResponse{Path: path})
}
