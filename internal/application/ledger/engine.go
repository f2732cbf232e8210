package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Engine motor de costeo FIFO y libro de clientes/proveedores en memoria.
// Es dueño de todas las colecciones; no hay estado global. Un único RWMutex serializa las
// mutaciones (lotes, transacciones, saldos) y permite lecturas concurrentes sobre estado consistente.
// Las lecturas devuelven copias.
type Engine struct {
	mu sync.RWMutex

	metals     []*entity.Metal
	metalIndex map[string]*entity.Metal // nombre normalizado → metal vivo

	parties    []*entity.Party
	partyIndex map[string]*entity.Party

	txs        []*entity.Transaction
	txIndex    map[string]*entity.Transaction
	payments   []*entity.Payment
	paidByTx   map[string]decimal.Decimal // Σ pagos posteriores por transacción
	reversedBy map[string]string          // transacción original → reversión

	expenses []*entity.Expense

	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// Option configura el motor.
type Option func(*Engine)

// WithLogger inyecta el logger estructurado.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock reemplaza el reloj (pruebas deterministas, importaciones con fecha histórica).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator reemplaza el generador de IDs.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine construye un motor vacío.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	e.reset()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) reset() {
	e.metals = nil
	e.metalIndex = make(map[string]*entity.Metal)
	e.parties = nil
	e.partyIndex = make(map[string]*entity.Party)
	e.txs = nil
	e.txIndex = make(map[string]*entity.Transaction)
	e.payments = nil
	e.paidByTx = make(map[string]decimal.Decimal)
	e.reversedBy = make(map[string]string)
	e.expenses = nil
}

// metal busca un metal vivo por nombre. Requiere lock tomado.
func (e *Engine) metal(name string) (*entity.Metal, error) {
	m, ok := e.metalIndex[entity.NormalizeName(name)]
	if !ok {
		return nil, domain.UnknownMetal(name)
	}
	return m, nil
}

// party busca un cliente/proveedor por nombre. Requiere lock tomado.
func (e *Engine) party(name string) (*entity.Party, error) {
	p, ok := e.partyIndex[entity.NormalizeName(name)]
	if !ok {
		return nil, domain.UnknownParty(name)
	}
	return p, nil
}

// partyOrCreate devuelve el cliente o lo crea: el rol se infiere de la transacción. Requiere write lock.
func (e *Engine) partyOrCreate(name string, at time.Time) *entity.Party {
	key := entity.NormalizeName(name)
	if p, ok := e.partyIndex[key]; ok {
		return p
	}
	p := &entity.Party{ID: e.newID(), Name: key, Balance: decimal.Zero, CreatedAt: at}
	e.parties = append(e.parties, p)
	e.partyIndex[key] = p
	return p
}

// outstanding saldo pendiente atribuible a una transacción. Requiere lock tomado.
func (e *Engine) outstanding(tx *entity.Transaction) decimal.Decimal {
	return tx.InitialDue().Sub(e.paidByTx[tx.ID])
}

// reject registra la operación rechazada y devuelve el error sin cambios.
func (e *Engine) reject(op string, err error) error {
	e.log.Warn().Str("op", op).Err(err).Msg("operación rechazada")
	return err
}
