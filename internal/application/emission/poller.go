package emission

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
)

var errStillPending = errors.New("autorización pendiente")

// Authorizer consulta una vez la autorización de un comprobante.
type Authorizer interface {
	Authorize(ctx context.Context, accessKey string) (*entity.Comprobante, error)
}

// Poller repite la consulta de autorización con espera fija hasta un estado final.
type Poller struct {
	authorizer Authorizer
	attempts   int
	delay      time.Duration
}

// NewPoller construye el poller. attempts < 1 se trata como 1.
func NewPoller(authorizer Authorizer, attempts int, delay time.Duration) *Poller {
	if attempts < 1 {
		attempts = 1
	}
	return &Poller{authorizer: authorizer, attempts: attempts, delay: delay}
}

// Await consulta hasta que el comprobante quede en estado final o se agoten los intentos.
// Agotar los intentos sin respuesta final no es error: se devuelve el último estado conocido.
// Los errores de transporte se reintentan; los demás cortan de inmediato.
func (p *Poller) Await(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	var last *entity.Comprobante

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.delay), uint64(p.attempts-1)),
		ctx,
	)
	err := backoff.Retry(func() error {
		comp, err := p.authorizer.Authorize(ctx, accessKey)
		if err != nil {
			if IsTransport(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		last = comp
		if comp.IsFinal() {
			return nil
		}
		return errStillPending
	}, policy)

	if errors.Is(err, errStillPending) {
		return last, nil
	}
	if err != nil {
		return last, err
	}
	return last, nil
}
