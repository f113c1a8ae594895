package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sri-facturacion/internal/domain"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// ComprobanteRepo implementación de ComprobanteRepository (usable con pool o tx).
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

const comprobanteColumns = `
	id, clave_acceso, tipo_comprobante, ambiente, ruc_emisor, establecimiento, punto_emision,
	secuencial, fecha_emision, identificacion_comprador, importe_total, estado, xml_firmado,
	xml_autorizado, numero_autorizacion, fecha_autorizacion, mensajes, documento, created_at, updated_at`

// Create persiste el comprobante firmado. La clave de acceso duplicada devuelve domain.ErrDuplicate.
func (r *ComprobanteRepo) Create(ctx context.Context, c *entity.Comprobante) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Messages == "" {
		c.Messages = "[]"
	}

	query := `INSERT INTO comprobantes (` + comprobanteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.AccessKey, c.DocumentType, c.Environment, c.EmitterRUC, c.Establishment, c.EmissionPoint,
		c.Sequential, c.EmissionDate, c.CustomerID, c.Total, c.Status, c.SignedXML,
		nullIfEmpty(c.AuthorizedXML), nullIfEmpty(c.AuthorizationNumber), c.AuthorizedAt,
		c.Messages, c.Document, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comprobante %s ya existe", domain.ErrDuplicate, c.AccessKey)
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

// GetByAccessKey devuelve nil, nil si no existe.
func (r *ComprobanteRepo) GetByAccessKey(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE clave_acceso = $1`
	c, err := scanComprobante(r.q.QueryRow(ctx, query, accessKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante by clave_acceso: %w", err)
	}
	return c, nil
}

// Update actualiza los campos que cambian tras recepción y autorización.
func (r *ComprobanteRepo) Update(ctx context.Context, c *entity.Comprobante) error {
	c.UpdatedAt = time.Now().UTC()
	if c.Messages == "" {
		c.Messages = "[]"
	}
	query := `
		UPDATE comprobantes
		SET estado              = $2,
		    xml_autorizado      = COALESCE($3, xml_autorizado),
		    numero_autorizacion = COALESCE($4, numero_autorizacion),
		    fecha_autorizacion  = COALESCE($5, fecha_autorizacion),
		    mensajes            = $6,
		    updated_at          = $7
		WHERE clave_acceso = $1`
	tag, err := r.q.Exec(ctx, query,
		c.AccessKey, c.Status, nullIfEmpty(c.AuthorizedXML), nullIfEmpty(c.AuthorizationNumber),
		c.AuthorizedAt, c.Messages, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update comprobante: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: comprobante %s", domain.ErrNotFound, c.AccessKey)
	}
	return nil
}

// ListPending comprobantes RECIBIDA más antiguos primero.
func (r *ComprobanteRepo) ListPending(ctx context.Context, limit int) ([]*entity.Comprobante, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + comprobanteColumns + `
		FROM comprobantes
		WHERE estado = $1
		ORDER BY created_at ASC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, entity.ComprobanteStatusReceived, limit)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes pendientes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Comprobante
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanComprobante(row pgxScanner) (*entity.Comprobante, error) {
	var (
		c                  entity.Comprobante
		authorizedXML      *string
		authorizationNum   *string
		messages, document []byte
	)
	err := row.Scan(
		&c.ID, &c.AccessKey, &c.DocumentType, &c.Environment, &c.EmitterRUC, &c.Establishment, &c.EmissionPoint,
		&c.Sequential, &c.EmissionDate, &c.CustomerID, &c.Total, &c.Status, &c.SignedXML,
		&authorizedXML, &authorizationNum, &c.AuthorizedAt, &messages, &document, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AuthorizedXML = derefString(authorizedXML)
	c.AuthorizationNumber = derefString(authorizationNum)
	c.Messages = string(messages)
	c.Document = document
	return &c, nil
}
