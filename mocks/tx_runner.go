package mocks

import (
	"context"

	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
)

// TxRunner ejecuta fn con los repos dados, sin transacción real.
// Si fn falla, RolledBack queda en true.
type TxRunner struct {
	Seq          repository.SequenceRepository
	Comprobantes repository.ComprobanteRepository
	RolledBack   bool
}

func (r *TxRunner) RunEmission(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	comprobanteRepo repository.ComprobanteRepository,
) error) error {
	if err := fn(r.Seq, r.Comprobantes); err != nil {
		r.RolledBack = true
		return err
	}
	return nil
}
