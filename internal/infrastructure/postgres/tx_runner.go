package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
)

var _ emission.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunEmission reserva secuencial y persiste el comprobante en una sola transacción:
// si la firma falla el secuencial no se consume.
func (r *TxRunner) RunEmission(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	comprobanteRepo repository.ComprobanteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSequenceRepository(tx), NewComprobanteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
