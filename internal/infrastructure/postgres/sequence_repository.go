package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// maxSequential el secuencial del SRI tiene 9 dígitos.
const maxSequential = 999_999_999

// SequenceRepo asigna secuenciales con un upsert atómico sobre la tabla secuenciales.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next reserva el siguiente secuencial. Dentro de una transacción la fila queda bloqueada hasta el commit,
// y un rollback devuelve el número.
func (r *SequenceRepo) Next(ctx context.Context, ruc, establishment, emissionPoint, documentType string) (int64, error) {
	const q = `
		INSERT INTO secuenciales (ruc_emisor, establecimiento, punto_emision, tipo_comprobante, ultimo)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (ruc_emisor, establecimiento, punto_emision, tipo_comprobante)
		DO UPDATE SET ultimo = secuenciales.ultimo + 1, updated_at = now()
		RETURNING ultimo`
	var next int64
	if err := r.q.QueryRow(ctx, q, ruc, establishment, emissionPoint, documentType).Scan(&next); err != nil {
		return 0, fmt.Errorf("reservar secuencial: %w", err)
	}
	if next > maxSequential {
		return 0, fmt.Errorf("secuencial agotado para %s %s-%s (tipo %s)", ruc, establishment, emissionPoint, documentType)
	}
	return next, nil
}
