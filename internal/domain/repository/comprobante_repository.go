package repository

import (
	"context"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
)

// ComprobanteRepository define el puerto de persistencia de comprobantes emitidos.
type ComprobanteRepository interface {
	Create(ctx context.Context, c *entity.Comprobante) error
	// GetByAccessKey devuelve nil, nil si no existe.
	GetByAccessKey(ctx context.Context, accessKey string) (*entity.Comprobante, error)
	// Update persiste estado, XML autorizado, número/fecha de autorización y mensajes.
	Update(ctx context.Context, c *entity.Comprobante) error
	// ListPending comprobantes en estado RECIBIDA aún sin respuesta de autorización.
	ListPending(ctx context.Context, limit int) ([]*entity.Comprobante, error)
}

// SequenceRepository asigna secuenciales por (RUC, establecimiento, punto de emisión, tipo de comprobante).
type SequenceRepository interface {
	// Next reserva y devuelve el siguiente secuencial (1, 2, 3…). Debe ser atómico.
	Next(ctx context.Context, ruc, establishment, emissionPoint, documentType string) (int64, error)
}
