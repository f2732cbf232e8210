package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// TransactionHandler compras, ventas, pagos y reversiones.
type TransactionHandler struct {
	svc *ledger.Service
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Purchase godoc
// @Summary      Registrar compra
// @Description  Crea un lote nuevo al final de la cola FIFO y registra lo adeudado al proveedor.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *TransactionHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.svc.RecordPurchase(c.UserContext(), ledger.PurchaseInput{
		Metal:       in.Metal,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Party:       in.Party,
		PaymentMode: in.PaymentMode,
		AmountPaid:  in.AmountPaid,
		Note:        in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(h.svc.Engine(), r))
}

// Sale godoc
// @Summary      Registrar venta
// @Description  Consume lotes en orden FIFO; la utilidad queda fijada al costo de los lotes consumidos.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *TransactionHandler) Sale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.svc.RecordSale(c.UserContext(), ledger.SaleInput{
		Metal:       in.Metal,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Party:       in.Party,
		PaymentMode: in.PaymentMode,
		AmountPaid:  in.AmountPaid,
		Note:        in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(h.svc.Engine(), r))
}

// Payment godoc
// @Summary      Registrar abono
// @Description  Con transaction_id abona a esa transacción; solo con party reparte el abono de la más antigua a la más nueva.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "Abono"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *TransactionHandler) Payment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.svc.RecordPayment(c.UserContext(), ledger.PaymentInput{
		TransactionID: in.TransactionID,
		Party:         in.Party,
		Amount:        in.Amount,
		Note:          in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(h.svc.Engine(), r))
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        metal  query  string  false  "Filtrar por metal"
// @Param        party  query  string  false  "Filtrar por cliente/proveedor"
// @Param        kind   query  string  false  "purchase, sale o reversal"
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200    {array}  dto.TransactionResponse
// @Header       200    {integer}  X-Total-Count  "Total de transacciones que cumplen el filtro"
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	e := h.svc.Engine()
	txs := e.Transactions(ledger.TransactionFilter{
		Metal: c.Query("metal"),
		Party: c.Query("party"),
		Kind:  c.Query("kind"),
	})
	start, end := page.Window(len(txs))
	out := make([]*dto.TransactionResponse, 0, end-start)
	for _, tx := range txs[start:end] {
		out = append(out, toTransactionResponse(e, tx))
	}
	c.Set("X-Total-Count", strconv.Itoa(len(txs)))
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	e := h.svc.Engine()
	tx, err := e.Transaction(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(e, tx))
}

// Reverse godoc
// @Summary      Revertir transacción
// @Description  Registra la transacción inversa: devuelve stock, compensa el saldo y descuenta la utilidad.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la transacción"
// @Param        body  body  dto.ReversalRequest  false  "Nota"
// @Success      201   {object}  dto.RecordResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/reverse [post]
func (h *TransactionHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReversalRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	r, err := h.svc.RecordReversal(c.UserContext(), c.Params("id"), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(h.svc.Engine(), r))
}
