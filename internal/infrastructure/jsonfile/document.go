package jsonfile

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// documentVersion cambia si el formato del archivo deja de ser compatible.
const documentVersion = 1

// Formato en disco del libro. Los montos se guardan como string decimal exacto.
type document struct {
	Version      int              `json:"version"`
	SavedAt      time.Time        `json:"saved_at"`
	Metals       []metalDoc       `json:"metals"`
	Parties      []partyDoc       `json:"parties"`
	Transactions []transactionDoc `json:"transactions"`
	Payments     []paymentDoc     `json:"payments"`
	Expenses     []expenseDoc     `json:"expenses"`
}

type metalDoc struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	DefaultBuyPrice  decimal.Decimal `json:"default_buy_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
	Lots             []lotDoc        `json:"lots"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type lotDoc struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Source        string          `json:"source,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Remaining     decimal.Decimal `json:"remaining"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	AcquiredAt    time.Time       `json:"acquired_at"`
}

type partyDoc struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Entries   []entryDoc      `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
}

type entryDoc struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	PaymentID     string          `json:"payment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type transactionDoc struct {
	ID           string           `json:"id"`
	Kind         string           `json:"kind"`
	MetalID      string           `json:"metal_id"`
	MetalName    string           `json:"metal_name"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	PaymentMode  string           `json:"payment_mode"`
	AmountPaid   decimal.Decimal  `json:"amount_paid"`
	PartyName    string           `json:"party_name"`
	Direction    int              `json:"direction"`
	Consumptions []consumptionDoc `json:"consumptions,omitempty"`
	CostBasis    decimal.Decimal  `json:"cost_basis"`
	Profit       decimal.Decimal  `json:"profit"`
	ReversesID   string           `json:"reverses_id,omitempty"`
	ReversedKind string           `json:"reversed_kind,omitempty"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type consumptionDoc struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

type paymentDoc struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	TransactionID string          `json:"transaction_id"`
	PartyName     string          `json:"party_name"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type expenseDoc struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toDocument(s *entity.Snapshot) document {
	doc := document{Version: documentVersion, SavedAt: s.SavedAt}
	for _, m := range s.Metals {
		md := metalDoc{
			ID: m.ID, Name: m.Name, Unit: m.Unit,
			DefaultBuyPrice: m.DefaultBuyPrice, DefaultSalePrice: m.DefaultSalePrice,
			Lots: make([]lotDoc, 0, len(m.Lots)), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
		for _, l := range m.Lots {
			md.Lots = append(md.Lots, lotDoc{
				ID: l.ID, TransactionID: l.TransactionID, Source: l.Source,
				Quantity: l.Quantity, Remaining: l.Remaining, UnitCost: l.UnitCost, AcquiredAt: l.AcquiredAt,
			})
		}
		doc.Metals = append(doc.Metals, md)
	}
	for _, p := range s.Parties {
		pd := partyDoc{ID: p.ID, Name: p.Name, Balance: p.Balance, Entries: make([]entryDoc, 0, len(p.Entries)), CreatedAt: p.CreatedAt}
		for _, e := range p.Entries {
			pd.Entries = append(pd.Entries, entryDoc{
				ID: e.ID, TransactionID: e.TransactionID, PaymentID: e.PaymentID,
				Amount: e.Amount, Balance: e.Balance, CreatedAt: e.CreatedAt,
			})
		}
		doc.Parties = append(doc.Parties, pd)
	}
	for _, t := range s.Transactions {
		td := transactionDoc{
			ID: t.ID, Kind: t.Kind, MetalID: t.MetalID, MetalName: t.MetalName,
			Quantity: t.Quantity, UnitPrice: t.UnitPrice, PaymentMode: t.PaymentMode, AmountPaid: t.AmountPaid,
			PartyName: t.PartyName, Direction: t.Direction, CostBasis: t.CostBasis, Profit: t.Profit,
			ReversesID: t.ReversesID, ReversedKind: t.ReversedKind, Note: t.Note, CreatedAt: t.CreatedAt,
		}
		for _, c := range t.Consumptions {
			td.Consumptions = append(td.Consumptions, consumptionDoc{LotID: c.LotID, Quantity: c.Quantity, UnitCost: c.UnitCost})
		}
		doc.Transactions = append(doc.Transactions, td)
	}
	for _, p := range s.Payments {
		doc.Payments = append(doc.Payments, paymentDoc{
			ID: p.ID, Kind: p.Kind, TransactionID: p.TransactionID, PartyName: p.PartyName,
			Amount: p.Amount, Note: p.Note, CreatedAt: p.CreatedAt,
		})
	}
	for _, x := range s.Expenses {
		doc.Expenses = append(doc.Expenses, expenseDoc{ID: x.ID, Name: x.Name, Amount: x.Amount, Description: x.Description, CreatedAt: x.CreatedAt})
	}
	return doc
}

func (doc document) toSnapshot() *entity.Snapshot {
	s := &entity.Snapshot{SavedAt: doc.SavedAt}
	for _, md := range doc.Metals {
		m := &entity.Metal{
			ID: md.ID, Name: md.Name, Unit: md.Unit,
			DefaultBuyPrice: md.DefaultBuyPrice, DefaultSalePrice: md.DefaultSalePrice,
			CreatedAt: md.CreatedAt, UpdatedAt: md.UpdatedAt,
		}
		for _, l := range md.Lots {
			m.Lots = append(m.Lots, &entity.Lot{
				ID: l.ID, MetalID: md.ID, TransactionID: l.TransactionID, Source: l.Source,
				Quantity: l.Quantity, Remaining: l.Remaining, UnitCost: l.UnitCost, AcquiredAt: l.AcquiredAt,
			})
		}
		s.Metals = append(s.Metals, m)
	}
	for _, pd := range doc.Parties {
		p := &entity.Party{ID: pd.ID, Name: pd.Name, Balance: pd.Balance, CreatedAt: pd.CreatedAt}
		for _, e := range pd.Entries {
			p.Entries = append(p.Entries, entity.LedgerEntry{
				ID: e.ID, PartyName: pd.Name, TransactionID: e.TransactionID, PaymentID: e.PaymentID,
				Amount: e.Amount, Balance: e.Balance, CreatedAt: e.CreatedAt,
			})
		}
		s.Parties = append(s.Parties, p)
	}
	for _, td := range doc.Transactions {
		t := &entity.Transaction{
			ID: td.ID, Kind: td.Kind, MetalID: td.MetalID, MetalName: td.MetalName,
			Quantity: td.Quantity, UnitPrice: td.UnitPrice, PaymentMode: td.PaymentMode, AmountPaid: td.AmountPaid,
			PartyName: td.PartyName, Direction: td.Direction, CostBasis: td.CostBasis, Profit: td.Profit,
			ReversesID: td.ReversesID, ReversedKind: td.ReversedKind, Note: td.Note, CreatedAt: td.CreatedAt,
		}
		for _, c := range td.Consumptions {
			t.Consumptions = append(t.Consumptions, entity.Consumption{LotID: c.LotID, Quantity: c.Quantity, UnitCost: c.UnitCost})
		}
		s.Transactions = append(s.Transactions, t)
	}
	for _, p := range doc.Payments {
		s.Payments = append(s.Payments, &entity.Payment{
			ID: p.ID, Kind: p.Kind, TransactionID: p.TransactionID, PartyName: p.PartyName,
			Amount: p.Amount, Note: p.Note, CreatedAt: p.CreatedAt,
		})
	}
	for _, x := range doc.Expenses {
		s.Expenses = append(s.Expenses, &entity.Expense{ID: x.ID, Name: x.Name, Amount: x.Amount, Description: x.Description, CreatedAt: x.CreatedAt})
	}
	return s
}
