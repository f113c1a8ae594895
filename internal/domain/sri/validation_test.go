package sri_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity/entitytest"
	domsri "github.com/jhoicas/sri-facturacion/internal/domain/sri"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

func TestNewDocument_FacturaValida(t *testing.T) {
	doc, err := domsri.NewDocument(entitytest.Invoice())
	require.NoError(t, err)
	assert.Equal(t, entitytest.InvoiceGrandTotal, doc.GrandTotal().StringFixed(2))
	assert.True(t, domsri.PaymentsMismatch(doc).IsZero())
}

func TestNewDocument_CopiaIndependiente(t *testing.T) {
	in := entitytest.Invoice()
	doc, err := domsri.NewDocument(in)
	require.NoError(t, err)

	in.Items[0].Taxes[0].Value = decimal.NewFromInt(99)
	assert.True(t, doc.Items[0].Taxes[0].Value.IsZero())
}

func TestNewDocument_Rechazos(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *entity.Document)
	}{
		{"RUC de 12 dígitos", func(d *entity.Document) { d.Emitter.RUC = "010006750001" }},
		{"establecimiento de 4 dígitos", func(d *entity.Document) { d.Establishment = "0001" }},
		{"secuencial corto", func(d *entity.Document) { d.Sequential = "5" }},
		{"código numérico de 9 dígitos", func(d *entity.Document) { d.NumericCode = "123456789" }},
		{"razón social corta", func(d *entity.Document) { d.Emitter.BusinessName = "AB" }},
		{"contabilidad distinta de SI/NO", func(d *entity.Document) { d.Emitter.KeepsAccounting = "TAL VEZ" }},
		{"ambiente desconocido", func(d *entity.Document) { d.Environment = "3" }},
		{"tipo de identificación desconocido", func(d *entity.Document) { d.Customer.IdentificationType = "99" }},
		{"sin detalles", func(d *entity.Document) { d.Items = nil }},
		{"tramo desconocido", func(d *entity.Document) { d.Items[0].Taxes[0].PercentageCode = "9" }},
		{"impuesto negativo", func(d *entity.Document) { d.Items[1].Taxes[0].Value = decimal.NewFromInt(-1) }},
		{"descuento adicional negativo", func(d *entity.Document) { d.Items[0].Taxes[0].AdditionalDiscount = decimal.NewFromInt(-1) }},
		{"nombre comercial de 2 letras", func(d *entity.Document) { d.Emitter.TradeName = "AB" }},
		{"forma de pago desconocida", func(d *entity.Document) { d.Payments[0].Method = "99" }},
		{"plazo negativo", func(d *entity.Document) { d.Payments[0].Term = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := entitytest.Invoice()
			tt.mutate(&in)
			doc, err := domsri.NewDocument(in)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, domsri.ErrInvalidDocument)
		})
	}
}

func TestNewDocument_NombreComercialOpcional(t *testing.T) {
	in := entitytest.Invoice()
	in.Emitter.TradeName = ""
	doc, err := domsri.NewDocument(in)
	require.NoError(t, err)
	assert.Empty(t, doc.Emitter.TradeName)
}

func TestNewDocument_AcumulaErrores(t *testing.T) {
	in := entitytest.Invoice()
	in.Emitter.RUC = "1"
	in.Sequential = "x"
	_, err := domsri.NewDocument(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUC del emisor")
	assert.Contains(t, err.Error(), "secuencial")
}

func TestAccessKey_FacturaDeEjemplo(t *testing.T) {
	doc, err := domsri.NewDocument(entitytest.Invoice())
	require.NoError(t, err)

	key, err := domsri.AccessKey(doc)
	require.NoError(t, err)
	assert.Equal(t, entitytest.InvoiceAccessKey, key)
	assert.NoError(t, sri.ValidateAccessKey(key))
}
