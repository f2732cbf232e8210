package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// ExpenseHandler gastos del negocio.
type ExpenseHandler struct {
	svc *ledger.Service
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(svc *ledger.Service) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// List godoc
// @Summary      Listar gastos
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpenseResponse
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	expenses := h.svc.Engine().Expenses()
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, x := range expenses {
		out = append(out, toExpenseResponse(x))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	x, err := h.svc.AddExpense(c.UserContext(), in.Name, in.Amount, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(*x))
}

// Delete godoc
// @Summary      Eliminar gasto
// @Tags         expenses
// @Security     Bearer
// @Param        id   path  string  true  "ID del gasto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteExpense(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
