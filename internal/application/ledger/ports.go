package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatementDocument datos del estado de cuenta para generar el PDF.
type StatementDocument struct {
	BusinessName string
	PartyName    string
	Balance      decimal.Decimal
	Lines        []StatementLine
}

// StatementPDFGenerator genera el PDF del estado de cuenta de un cliente/proveedor.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, doc StatementDocument) ([]byte, error)
}
