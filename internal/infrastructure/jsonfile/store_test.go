package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/jsonfile"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seededEngine(t *testing.T) (*ledger.Engine, string) {
	t.Helper()
	e := ledger.NewEngine()
	_, err := e.AddMetal(ledger.MetalInput{Name: "نحاس", DefaultBuyPrice: d("5"), DefaultSalePrice: d("8")})
	require.NoError(t, err)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "نحاس", Quantity: d("100"), Party: "Ahmed"})
	require.NoError(t, err)
	sale, err := e.RecordSale(ledger.SaleInput{
		Metal: "نحاس", Quantity: d("40"), Party: "Omar", PaymentMode: entity.PaymentModeCredit, AmountPaid: d2p("100"),
	})
	require.NoError(t, err)
	_, err = e.AddExpense("transporte", d("12.5"), "camión")
	require.NoError(t, err)
	return e, sale.Transaction.ID
}

func d2p(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestStore_SaveLoadRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ledger.json")
	store := jsonfile.NewStore(path, zerolog.Nop())

	e, saleID := seededEngine(t)
	require.NoError(t, store.Save(ctx, e.Snapshot()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	restored := ledger.NewEngine()
	require.NoError(t, restored.Restore(snap))

	onHand, err := restored.OnHand("نحاس")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(d("60")))
	bal, err := restored.Balance("Omar")
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("220")))
	out, err := restored.Outstanding(saleID)
	require.NoError(t, err)
	assert.True(t, out.Equal(d("220")))
	assert.True(t, restored.TotalRealizedProfit().Equal(d("120")))
	assert.True(t, restored.Summary().TotalExpenses.Equal(d("12.5")))

	tx, err := restored.Transaction(saleID)
	require.NoError(t, err)
	require.Len(t, tx.Consumptions, 1)
	assert.True(t, tx.Consumptions[0].UnitCost.Equal(d("5")))
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := jsonfile.NewStore(path, zerolog.Nop()).Load(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o600))
	_, err = jsonfile.NewStore(path, zerolog.Nop()).Load(context.Background())
	assert.ErrorContains(t, err, "99")
}

func TestStore_Backup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := jsonfile.NewStore(filepath.Join(dir, "ledger.json"), zerolog.Nop())

	_, err := store.Backup(ctx)
	assert.Error(t, err, "sin archivo no hay respaldo")

	e, _ := seededEngine(t)
	require.NoError(t, store.Save(ctx, e.Snapshot()))

	target, err := store.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(target))
	assert.Regexp(t, `ledger_backup_\d{8}_\d{6}\.json$`, target)

	original, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, copied)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no quedan temporales")
}

func TestStore_KeepsFullScale(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "ledger.json"), zerolog.Nop())

	e := ledger.NewEngine()
	_, err := e.AddMetal(ledger.MetalInput{Name: "brass"})
	require.NoError(t, err)
	_, err = e.RecordPurchase(ledger.PurchaseInput{
		Metal: "brass", Quantity: d("1.5"), UnitCost: d2p("0.333333"), Party: "S", PaymentMode: entity.PaymentModeCredit, AmountPaid: d2p("0"),
	})
	require.NoError(t, err)
	_, err = e.AddLot("brass", d("0.0000001"), d("0.3333333333333333"), e.Snapshot().SavedAt, "saldo inicial")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, e.Snapshot()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	restored := ledger.NewEngine()
	require.NoError(t, restored.Restore(snap))

	bal, err := restored.Balance("S")
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("-0.4999995")), bal.String())
	lots, err := restored.Lots("brass")
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.True(t, lots[1].Quantity.Equal(d("0.0000001")))
	assert.True(t, lots[1].UnitCost.Equal(d("0.3333333333333333")))
}
