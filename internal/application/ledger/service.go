package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

// Service caso de uso que combina el motor con la persistencia: cada comando exitoso se guarda
// completo en el repositorio. Si el guardado falla el motor vuelve al estado previo al comando y
// se devuelve ErrPersistence, de modo que el comando se puede reintentar sin duplicarse.
type Service struct {
	engine *Engine
	repo   repository.SnapshotRepository
	pdf    StatementPDFGenerator
	name   string
	log    zerolog.Logger

	cmdMu sync.Mutex
}

// NewService construye el servicio. repo y pdf pueden ser nil (solo memoria / sin PDF).
func NewService(engine *Engine, repo repository.SnapshotRepository, pdf StatementPDFGenerator, businessName string, log zerolog.Logger) *Service {
	return &Service{engine: engine, repo: repo, pdf: pdf, name: businessName, log: log}
}

// Engine expone el motor para consultas.
func (s *Service) Engine() *Engine { return s.engine }

// Load restaura el estado guardado. Sin datos previos deja el motor vacío.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %v", domain.ErrPersistence, err)
	}
	if snap == nil {
		s.log.Info().Msg("sin estado guardado, iniciando vacío")
		return nil
	}
	return s.engine.Restore(snap)
}

// run ejecuta cmd y guarda el resultado. Los comandos del servicio se serializan en cmdMu, así
// el snapshot previo sigue siendo el último estado confirmado cuando hay que deshacer.
func (s *Service) run(ctx context.Context, op string, cmd func() error) error {
	if s.repo == nil {
		return cmd()
	}
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	before := s.engine.Snapshot()
	if err := cmd(); err != nil {
		return err
	}
	err := s.repo.Save(ctx, s.engine.Snapshot())
	if err == nil {
		return nil
	}
	s.log.Error().Err(err).Str("op", op).Msg("error guardando el estado, se deshace el comando")
	if rerr := s.engine.Restore(before); rerr != nil {
		s.log.Error().Err(rerr).Str("op", op).Msg("no se pudo deshacer el comando")
		return fmt.Errorf("%w: %s: %v (rollback: %v)", domain.ErrPersistence, op, err, rerr)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

// Backup pide al repositorio una copia de respaldo, si la soporta.
func (s *Service) Backup(ctx context.Context) (string, error) {
	b, ok := s.repo.(repository.Backupper)
	if !ok {
		return "", fmt.Errorf("%w: el almacén configurado no soporta respaldos", domain.ErrConflict)
	}
	path, err := b.Backup(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: backup: %v", domain.ErrPersistence, err)
	}
	s.log.Info().Str("path", path).Msg("respaldo generado")
	return path, nil
}

func (s *Service) AddMetal(ctx context.Context, in MetalInput) (*entity.Metal, error) {
	var m *entity.Metal
	err := s.run(ctx, "add_metal", func() (err error) {
		m, err = s.engine.AddMetal(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) SetPrices(ctx context.Context, name string, buy, sale decimal.Decimal) (*entity.Metal, error) {
	var m *entity.Metal
	err := s.run(ctx, "set_prices", func() (err error) {
		m, err = s.engine.SetPrices(name, buy, sale)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteMetal(ctx context.Context, name string) error {
	return s.run(ctx, "delete_metal", func() error { return s.engine.DeleteMetal(name) })
}

func (s *Service) RecordPurchase(ctx context.Context, in PurchaseInput) (*Recorded, error) {
	return s.record(ctx, "record_purchase", func() (*Recorded, error) { return s.engine.RecordPurchase(in) })
}

func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*Recorded, error) {
	return s.record(ctx, "record_sale", func() (*Recorded, error) { return s.engine.RecordSale(in) })
}

func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Recorded, error) {
	return s.record(ctx, "record_payment", func() (*Recorded, error) { return s.engine.RecordPayment(in) })
}

func (s *Service) RecordReversal(ctx context.Context, txID, note string) (*Recorded, error) {
	return s.record(ctx, "record_reversal", func() (*Recorded, error) { return s.engine.RecordReversal(txID, note) })
}

func (s *Service) record(ctx context.Context, op string, cmd func() (*Recorded, error)) (*Recorded, error) {
	var r *Recorded
	err := s.run(ctx, op, func() (err error) {
		r, err = cmd()
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) AddParty(ctx context.Context, name string) (*entity.Party, error) {
	var p *entity.Party
	err := s.run(ctx, "add_party", func() (err error) {
		p, err = s.engine.AddParty(name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteParty(ctx context.Context, name string) error {
	return s.run(ctx, "delete_party", func() error { return s.engine.DeleteParty(name) })
}

func (s *Service) AddExpense(ctx context.Context, name string, amount decimal.Decimal, description string) (*entity.Expense, error) {
	var x *entity.Expense
	err := s.run(ctx, "add_expense", func() (err error) {
		x, err = s.engine.AddExpense(name, amount, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	return s.run(ctx, "delete_expense", func() error { return s.engine.DeleteExpense(id) })
}

// StatementPDF genera el estado de cuenta en PDF del cliente.
func (s *Service) StatementPDF(ctx context.Context, party string) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("%w: generador de PDF no configurado", domain.ErrConflict)
	}
	p, err := s.engine.Party(party)
	if err != nil {
		return nil, err
	}
	lines, err := s.engine.Statement(p.Name)
	if err != nil {
		return nil, err
	}
	// El saldo del documento es el de la última línea incluida.
	balance := decimal.Zero
	if len(lines) > 0 {
		balance = lines[len(lines)-1].Entry.Balance
	}
	return s.pdf.GenerateStatementPDF(ctx, StatementDocument{
		BusinessName: s.name,
		PartyName:    p.Name,
		Balance:      balance,
		Lines:        lines,
	})
}
