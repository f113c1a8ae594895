package emission_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity/entitytest"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// scriptedAuthorizer devuelve los estados/errores en orden; repite el último.
type scriptedAuthorizer struct {
	statuses []string
	errs     []error
	calls    int
}

func (a *scriptedAuthorizer) Authorize(_ context.Context, accessKey string) (*entity.Comprobante, error) {
	i := a.calls
	if i >= len(a.statuses) {
		i = len(a.statuses) - 1
	}
	a.calls++
	if i < len(a.errs) && a.errs[i] != nil {
		return nil, a.errs[i]
	}
	return &entity.Comprobante{AccessKey: accessKey, Status: a.statuses[i]}, nil
}

func TestPoller_HastaEstadoFinal(t *testing.T) {
	a := &scriptedAuthorizer{statuses: []string{
		entity.ComprobanteStatusReceived,
		entity.ComprobanteStatusReceived,
		entity.ComprobanteStatusAuthorized,
	}}

	comp, err := emission.NewPoller(a, 5, 0).Await(context.Background(), entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.Equal(t, entity.ComprobanteStatusAuthorized, comp.Status)
	assert.Equal(t, 3, a.calls)
}

func TestPoller_IntentosAgotadosNoEsError(t *testing.T) {
	a := &scriptedAuthorizer{statuses: []string{entity.ComprobanteStatusReceived}}

	comp, err := emission.NewPoller(a, 3, 0).Await(context.Background(), entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.Equal(t, entity.ComprobanteStatusReceived, comp.Status)
	assert.Equal(t, 3, a.calls)
}

func TestPoller_ReintentaTransporte(t *testing.T) {
	a := &scriptedAuthorizer{
		statuses: []string{"", entity.ComprobanteStatusAuthorized},
		errs:     []error{fmt.Errorf("%w: timeout", sri.ErrTransport)},
	}

	comp, err := emission.NewPoller(a, 3, 0).Await(context.Background(), entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.Equal(t, entity.ComprobanteStatusAuthorized, comp.Status)
	assert.Equal(t, 2, a.calls)
}

func TestPoller_ErrorPermanenteCorta(t *testing.T) {
	a := &scriptedAuthorizer{
		statuses: []string{""},
		errs:     []error{domain.ErrNotFound},
	}

	_, err := emission.NewPoller(a, 5, 0).Await(context.Background(), entitytest.InvoiceAccessKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, a.calls)
}

func TestPoller_IntentosMinimoUno(t *testing.T) {
	a := &scriptedAuthorizer{statuses: []string{entity.ComprobanteStatusReceived}}

	_, err := emission.NewPoller(a, 0, 0).Await(context.Background(), entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)
}
