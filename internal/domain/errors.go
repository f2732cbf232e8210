package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInvalidAmount      = errors.New("monto inválido")
	ErrOverPayment        = errors.New("el pago excede el saldo pendiente")
	ErrUnknownMetal       = errors.New("metal desconocido")
	ErrUnknownParty       = errors.New("cliente/proveedor desconocido")
	ErrUnknownTransaction = errors.New("transacción desconocida")
	ErrAlreadyReversed    = errors.New("la transacción ya fue revertida")
	ErrPersistence        = errors.New("no se pudo persistir el estado")
)

// InsufficientStockError detalla una salida rechazada: lo pedido contra lo disponible.
type InsufficientStockError struct {
	Metal     string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q: solicitado %s, disponible %s",
		e.Metal, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OverPaymentError detalla un pago rechazado. Reference es el ID de transacción o el nombre del cliente.
type OverPaymentError struct {
	Reference   string
	Requested   decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("pago de %s excede el saldo pendiente %s (%s)",
		e.Requested.String(), e.Outstanding.String(), e.Reference)
}

func (e *OverPaymentError) Unwrap() error { return ErrOverPayment }

// UnknownEntityError referencia a un metal, cliente o transacción inexistente.
type UnknownEntityError struct {
	Kind string // metal, party, transaction
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("%s no encontrado: %q", e.Kind, e.Name)
}

func (e *UnknownEntityError) Unwrap() error {
	switch e.Kind {
	case "metal":
		return ErrUnknownMetal
	case "party":
		return ErrUnknownParty
	case "transaction":
		return ErrUnknownTransaction
	}
	return ErrNotFound
}

// ValidationError entrada rechazada antes de tocar el estado. Err es ErrInvalidQuantity,
// ErrInvalidAmount o ErrInvalidInput.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%q", e.Err.Error(), e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownMetal construye el error para un metal inexistente.
func UnknownMetal(name string) error { return &UnknownEntityError{Kind: "metal", Name: name} }

// UnknownParty construye el error para un cliente/proveedor inexistente.
func UnknownParty(name string) error { return &UnknownEntityError{Kind: "party", Name: name} }

// UnknownTransaction construye el error para una transacción inexistente.
func UnknownTransaction(id string) error { return &UnknownEntityError{Kind: "transaction", Name: id} }

// InvalidQuantity rechaza una cantidad no positiva.
func InvalidQuantity(field string, v decimal.Decimal) error {
	return &ValidationError{Field: field, Value: v.String(), Err: ErrInvalidQuantity}
}

// InvalidAmount rechaza un monto fuera de rango.
func InvalidAmount(field string, v decimal.Decimal) error {
	return &ValidationError{Field: field, Value: v.String(), Err: ErrInvalidAmount}
}

// InvalidInput rechaza un campo obligatorio vacío o con valor no permitido.
func InvalidInput(field, v string) error {
	return &ValidationError{Field: field, Value: v, Err: ErrInvalidInput}
}
