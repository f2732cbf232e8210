package http

import (
	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

func toMetalResponse(m *entity.Metal) dto.MetalResponse {
	return dto.MetalResponse{
		ID:               m.ID,
		Name:             m.Name,
		Unit:             m.Unit,
		DefaultBuyPrice:  m.DefaultBuyPrice,
		DefaultSalePrice: m.DefaultSalePrice,
		OnHand:           m.OnHand(),
		CostValue:        m.CostValue(),
		LotCount:         len(m.Lots),
		UpdatedAt:        m.UpdatedAt,
	}
}

func toLotResponse(l entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:            l.ID,
		TransactionID: l.TransactionID,
		Source:        l.Source,
		Quantity:      l.Quantity,
		Remaining:     l.Remaining,
		UnitCost:      l.UnitCost,
		AcquiredAt:    l.AcquiredAt,
		Exhausted:     l.Exhausted(),
	}
}

func toLotResponses(lots []entity.Lot) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResponse(l))
	}
	return out
}

// toTransactionResponse agrega saldo pendiente y reversión consultando el motor.
func toTransactionResponse(e *ledger.Engine, tx *entity.Transaction) *dto.TransactionResponse {
	out := &dto.TransactionResponse{
		ID:          tx.ID,
		Kind:        tx.Kind,
		MetalName:   tx.MetalName,
		Quantity:    tx.Quantity,
		UnitPrice:   tx.UnitPrice,
		Total:       tx.Total(),
		PaymentMode: tx.PaymentMode,
		AmountPaid:  tx.AmountPaid,
		Party:       tx.PartyName,
		CostBasis:   tx.CostBasis,
		Profit:      tx.Profit,
		ReversesID:  tx.ReversesID,
		ReversedBy:  e.ReversedBy(tx.ID),
		Note:        tx.Note,
		CreatedAt:   tx.CreatedAt,
	}
	if outstanding, err := e.Outstanding(tx.ID); err == nil {
		out.Outstanding = outstanding
	}
	for _, c := range tx.Consumptions {
		out.Consumptions = append(out.Consumptions, dto.ConsumptionResponse{
			LotID:    c.LotID,
			Quantity: c.Quantity,
			UnitCost: c.UnitCost,
		})
	}
	return out
}

func toPaymentResponse(p entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		Kind:          p.Kind,
		TransactionID: p.TransactionID,
		Party:         p.PartyName,
		Amount:        p.Amount,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt,
	}
}

func toEntryResponse(le entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:            le.ID,
		TransactionID: le.TransactionID,
		PaymentID:     le.PaymentID,
		Amount:        le.Amount,
		Balance:       le.Balance,
		CreatedAt:     le.CreatedAt,
	}
}

func toRecordResponse(e *ledger.Engine, r *ledger.Recorded) dto.RecordResponse {
	out := dto.RecordResponse{
		Lots:      toLotResponses(r.Lots),
		Entries:   make([]dto.LedgerEntryResponse, 0, len(r.Entries)),
		Balance:   r.Balance,
		MarginPct: r.MarginPct,
	}
	if r.Transaction != nil {
		out.Transaction = toTransactionResponse(e, r.Transaction)
	}
	for _, p := range r.Payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	for _, le := range r.Entries {
		out.Entries = append(out.Entries, toEntryResponse(le))
	}
	return out
}

func toPartyResponse(p ledger.PartySummary) dto.PartyResponse {
	return dto.PartyResponse{
		Name:       p.Name,
		Balance:    p.Balance,
		EntryCount: p.EntryCount,
		CreatedAt:  p.CreatedAt,
	}
}

func toStatementLineResponse(l ledger.StatementLine) dto.StatementLineResponse {
	return dto.StatementLineResponse{
		Date:            l.Entry.CreatedAt,
		Kind:            l.Kind,
		TransactionID:   l.Entry.TransactionID,
		TransactionKind: l.TransactionKind,
		PaymentID:       l.Entry.PaymentID,
		Metal:           l.MetalName,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		Total:           l.Total,
		Amount:          l.Entry.Amount,
		Balance:         l.Entry.Balance,
	}
}

func toExpenseResponse(x entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          x.ID,
		Name:        x.Name,
		Amount:      x.Amount,
		Description: x.Description,
		CreatedAt:   x.CreatedAt,
	}
}

func toSummaryResponse(s ledger.InventorySummary) dto.InventorySummaryResponse {
	out := dto.InventorySummaryResponse{
		Metals:              make([]dto.MetalSummaryResponse, 0, len(s.Metals)),
		TotalCostValue:      s.TotalCostValue,
		TotalRevenue:        s.TotalRevenue,
		TotalRealizedProfit: s.TotalRealizedProfit,
		TotalExpenses:       s.TotalExpenses,
		NetProfit:           s.NetProfit,
		NetMarginPct:        s.NetMarginPct,
	}
	for _, m := range s.Metals {
		out.Metals = append(out.Metals, dto.MetalSummaryResponse{
			Name:             m.Name,
			Unit:             m.Unit,
			OnHand:           m.OnHand,
			CostValue:        m.CostValue,
			AverageCost:      m.AverageCost,
			DefaultBuyPrice:  m.DefaultBuyPrice,
			DefaultSalePrice: m.DefaultSalePrice,
			LotCount:         m.LotCount,
			RealizedProfit:   m.RealizedProfit,
		})
	}
	return out
}
