package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Los montos y cantidades viajan como string decimal ("12.50") para no perder precisión;
// en las solicitudes se aceptan también como número JSON.

// CreateMetalRequest alta de un metal.
type CreateMetalRequest struct {
	Name             string          `json:"name" validate:"required,max=100"`
	Unit             string          `json:"unit" validate:"omitempty,max=20"`
	DefaultBuyPrice  decimal.Decimal `json:"default_buy_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
}

// SetPricesRequest actualización de precios sugeridos.
type SetPricesRequest struct {
	DefaultBuyPrice  decimal.Decimal `json:"default_buy_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
}

// MetalResponse metal con su stock.
type MetalResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	DefaultBuyPrice  decimal.Decimal `json:"default_buy_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
	OnHand           decimal.Decimal `json:"on_hand"`
	CostValue        decimal.Decimal `json:"cost_value"`
	LotCount         int             `json:"lot_count"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LotResponse lote de compra.
type LotResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Source        string          `json:"source,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Remaining     decimal.Decimal `json:"remaining"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	AcquiredAt    time.Time       `json:"acquired_at"`
	Exhausted     bool            `json:"exhausted"`
}

// PurchaseRequest compra de metal a un proveedor. unit_cost omitido usa el precio sugerido.
type PurchaseRequest struct {
	Metal       string           `json:"metal" validate:"required,max=100"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Party       string           `json:"party" validate:"required,max=200"`
	PaymentMode string           `json:"payment_mode" validate:"omitempty,oneof=cash credit"`
	AmountPaid  *decimal.Decimal `json:"amount_paid"`
	Note        string           `json:"note" validate:"max=500"`
}

// SaleRequest venta de metal a un cliente. unit_price omitido usa el precio sugerido.
type SaleRequest struct {
	Metal       string           `json:"metal" validate:"required,max=100"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Party       string           `json:"party" validate:"required,max=200"`
	PaymentMode string           `json:"payment_mode" validate:"omitempty,oneof=cash credit"`
	AmountPaid  *decimal.Decimal `json:"amount_paid"`
	Note        string           `json:"note" validate:"max=500"`
}

// PaymentRequest abono contra una transacción o contra el saldo del cliente.
type PaymentRequest struct {
	TransactionID string          `json:"transaction_id" validate:"required_without=Party"`
	Party         string          `json:"party" validate:"required_without=TransactionID,max=200"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note" validate:"max=500"`
}

// ReversalRequest corrección de una transacción.
type ReversalRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// TransactionResponse transacción registrada.
type TransactionResponse struct {
	ID           string                `json:"id"`
	Kind         string                `json:"kind"`
	MetalName    string                `json:"metal"`
	Quantity     decimal.Decimal       `json:"quantity"`
	UnitPrice    decimal.Decimal       `json:"unit_price"`
	Total        decimal.Decimal       `json:"total"`
	PaymentMode  string                `json:"payment_mode"`
	AmountPaid   decimal.Decimal       `json:"amount_paid"`
	Outstanding  decimal.Decimal       `json:"outstanding"`
	Party        string                `json:"party"`
	CostBasis    decimal.Decimal       `json:"cost_basis"`
	Profit       decimal.Decimal       `json:"profit"`
	Consumptions []ConsumptionResponse `json:"consumptions,omitempty"`
	ReversesID   string                `json:"reverses_id,omitempty"`
	ReversedBy   string                `json:"reversed_by,omitempty"`
	Note         string                `json:"note,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ConsumptionResponse cantidad tomada de un lote por una venta.
type ConsumptionResponse struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	TransactionID string          `json:"transaction_id"`
	Party         string          `json:"party"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerEntryResponse entrada del libro de un cliente.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	PaymentID     string          `json:"payment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecordResponse resultado de compra, venta, abono o reversión.
type RecordResponse struct {
	Transaction *TransactionResponse  `json:"transaction,omitempty"`
	Lots        []LotResponse         `json:"lots,omitempty"`
	Payments    []PaymentResponse     `json:"payments,omitempty"`
	Entries     []LedgerEntryResponse `json:"entries"`
	Balance     decimal.Decimal       `json:"balance"`
	MarginPct   *decimal.Decimal      `json:"margin_pct"`
}

// CreatePartyRequest alta explícita de cliente/proveedor.
type CreatePartyRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// PartyResponse cliente/proveedor con su saldo.
// Balance > 0: el cliente debe al negocio; < 0: el negocio debe al proveedor.
type PartyResponse struct {
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	EntryCount int             `json:"entry_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StatementLineResponse línea del estado de cuenta.
type StatementLineResponse struct {
	Date            time.Time       `json:"date"`
	Kind            string          `json:"kind"`
	TransactionID   string          `json:"transaction_id"`
	TransactionKind string          `json:"transaction_kind,omitempty"`
	PaymentID       string          `json:"payment_id,omitempty"`
	Metal           string          `json:"metal,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
}

// StatementResponse estado de cuenta: saldo actual y una página de líneas.
type StatementResponse struct {
	Party   string                  `json:"party"`
	Balance decimal.Decimal         `json:"balance"`
	Lines   []StatementLineResponse `json:"lines"`
	Page    PageResponse            `json:"page"`
}

// CreateExpenseRequest alta de gasto.
type CreateExpenseRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

// ExpenseResponse gasto registrado.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MetalSummaryResponse fila del resumen de inventario.
type MetalSummaryResponse struct {
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	OnHand           decimal.Decimal `json:"on_hand"`
	CostValue        decimal.Decimal `json:"cost_value"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	DefaultBuyPrice  decimal.Decimal `json:"default_buy_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
	LotCount         int             `json:"lot_count"`
	RealizedProfit   decimal.Decimal `json:"realized_profit"`
}

// InventorySummaryResponse resumen de stock, utilidad y gastos.
type InventorySummaryResponse struct {
	Metals              []MetalSummaryResponse `json:"metals"`
	TotalCostValue      decimal.Decimal        `json:"total_cost_value"`
	TotalRevenue        decimal.Decimal        `json:"total_revenue"`
	TotalRealizedProfit decimal.Decimal        `json:"total_realized_profit"`
	TotalExpenses       decimal.Decimal        `json:"total_expenses"`
	NetProfit           decimal.Decimal        `json:"net_profit"`
	NetMarginPct        *decimal.Decimal       `json:"net_margin_pct"`
}

// BackupResponse ruta del respaldo generado.
type BackupResponse struct {
	Path string `json:"path"`
}
