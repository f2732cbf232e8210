package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// PartyHandler clientes/proveedores y estados de cuenta.
type PartyHandler struct {
	svc *ledger.Service
}

// NewPartyHandler construye el handler.
func NewPartyHandler(svc *ledger.Service) *PartyHandler {
	return &PartyHandler{svc: svc}
}

// List godoc
// @Summary      Listar clientes/proveedores con saldo
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartyResponse
// @Router       /api/parties [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	parties := h.svc.Engine().Parties()
	out := make([]dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, toPartyResponse(p))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar cliente/proveedor
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Nombre"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.svc.AddParty(c.UserContext(), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PartyResponse{
		Name:       p.Name,
		Balance:    p.Balance,
		EntryCount: len(p.Entries),
		CreatedAt:  p.CreatedAt,
	})
}

// Delete godoc
// @Summary      Eliminar cliente/proveedor sin movimientos
// @Tags         parties
// @Security     Bearer
// @Param        name  path  string  true  "Nombre del cliente/proveedor"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parties/{name} [delete]
func (h *PartyHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteParty(c.UserContext(), pathParam(c, "name")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Statement godoc
// @Summary      Estado de cuenta
// @Description  El saldo es el actual del cliente; las líneas se paginan en orden del libro.
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        name    path   string  true   "Nombre del cliente/proveedor"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200   {object}  dto.StatementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{name}/statement [get]
func (h *PartyHandler) Statement(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	e := h.svc.Engine()
	name := pathParam(c, "name")
	p, err := e.Party(name)
	if err != nil {
		return writeError(c, err)
	}
	lines, err := e.Statement(p.Name)
	if err != nil {
		return writeError(c, err)
	}
	balance := p.Balance
	if len(lines) > 0 {
		balance = lines[len(lines)-1].Entry.Balance
	}
	start, end := page.Window(len(lines))
	out := dto.StatementResponse{
		Party:   p.Name,
		Balance: balance,
		Lines:   make([]dto.StatementLineResponse, 0, end-start),
		Page:    page.Response(len(lines)),
	}
	for _, l := range lines[start:end] {
		out.Lines = append(out.Lines, toStatementLineResponse(l))
	}
	return c.JSON(out)
}

// StatementPDF godoc
// @Summary      Estado de cuenta en PDF
// @Tags         parties
// @Security     Bearer
// @Produce      application/pdf
// @Param        name  path  string  true  "Nombre del cliente/proveedor"
// @Success      200   {file}    binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{name}/statement.pdf [get]
func (h *PartyHandler) StatementPDF(c *fiber.Ctx) error {
	name := pathParam(c, "name")
	pdfBytes, err := h.svc.StatementPDF(c.UserContext(), name)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment("estado_de_cuenta.pdf")
	return c.Send(pdfBytes)
}
