package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document archivo data.json de la aplicación de escritorio.
type Document struct {
	Metals   []Metal   `json:"metals"`
	History  []Record  `json:"history"`
	Expenses []Expense `json:"expenses"`
}

// Metal con sus lotes vigentes (cantidades ya descontadas por las ventas).
type Metal struct {
	Name           string `json:"name"`
	PricePerKg     Amount `json:"price_per_kg"`
	SalePricePerKg Amount `json:"sale_price_per_kg"`
	Lots           []Lot  `json:"lots"`
}

// Lot lote vigente; el costo unitario es TotalPaid / Quantity.
type Lot struct {
	Source    string `json:"source"`
	Quantity  Amount `json:"quantity"`
	TotalPaid Amount `json:"total_paid"`
	Date      string `json:"date"`
}

// Record fila del historial de compras y ventas.
type Record struct {
	Date            string  `json:"date"`
	Operation       string  `json:"operation"`
	Metal           string  `json:"metal"`
	Quantity        Amount  `json:"quantity"`
	PricePerKg      Amount  `json:"price_per_kg"`
	Person          string  `json:"person"`
	PaidAmount      *Amount `json:"paid_amount"`
	CostBasis       *Amount `json:"cost_basis"`
	TransactionType string  `json:"transaction_type"`
}

// Expense gasto registrado.
type Expense struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
}

// Amount número que puede venir como número JSON, string o vacío ("" y null valen cero).
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			a.Decimal = decimal.Zero
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("monto %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}

// Kind tipo de la fila: purchase o sale. Las filas antiguas sin transaction_type se
// reconocen por el costo registrado en las ventas.
func (r Record) Kind() string {
	switch r.TransactionType {
	case "purchase", "sale":
		return r.TransactionType
	case "":
		if r.CostBasis != nil {
			return "sale"
		}
		return "purchase"
	}
	return r.TransactionType
}

var dateLayouts = []string{
	"2006-01-02T03:04:05 PM",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate interpreta las fechas guardadas por la aplicación (ISO con AM/PM y variantes).
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Decode lee un data.json completo.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("legacy: decodificar data.json: %w", err)
	}
	return &doc, nil
}
