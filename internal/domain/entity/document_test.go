package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity/entitytest"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Totales de la factura de ejemplo: una línea por cada tramo reportado.
// ──────────────────────────────────────────────────────────────────────────────

func TestDocument_TotalesPorTramo(t *testing.T) {
	doc := entitytest.Invoice()

	tests := []struct {
		bracket string
		want    string
	}{
		{sri.PercentageZero, "100.00"},
		{sri.PercentageTwelve, "22.50"},
		{sri.PercentageFourteen, "37.50"},
		{sri.PercentageNoTax, "15.00"},
		{sri.PercentageTaxExempt, "30.00"},
		{sri.PercentageFifteen, "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, doc.SubtotalForBracket(tt.bracket).StringFixed(2), "tramo %s", tt.bracket)
	}
}

func TestDocument_TotalesGenerales(t *testing.T) {
	doc := entitytest.Invoice()

	assert.Equal(t, entitytest.InvoiceTotalWithoutTax, doc.TotalWithoutTax().StringFixed(2))
	assert.Equal(t, entitytest.InvoiceTotalTax, doc.TotalTax().StringFixed(2))
	assert.Equal(t, entitytest.InvoiceGrandTotal, doc.GrandTotal().StringFixed(2))
	assert.Equal(t, "0.00", doc.TotalDiscount().StringFixed(2))
	assert.Equal(t, entitytest.InvoiceGrandTotal, doc.AmountDue().StringFixed(2), "sin propina")
	assert.Equal(t, "001001", doc.Series())
	assert.Equal(t, "001-001-000000005", doc.Number())
}

func TestDocument_TaxTotalsAgrupaPorTramo(t *testing.T) {
	doc := entitytest.Invoice()
	doc.Items = append(doc.Items, doc.Items[1])

	totals := doc.TaxTotals()
	require.Len(t, totals, 5)
	assert.Equal(t, sri.PercentageTwelve, totals[1].PercentageCode)
	assert.Equal(t, "45.00", totals[1].Base.StringFixed(2))
	assert.Equal(t, "5.40", totals[1].Value.StringFixed(2))
}

func TestDocument_CloneNoComparteLineas(t *testing.T) {
	doc := entitytest.Invoice()
	clone := doc.Clone()

	clone.Items[0].Taxes[0].PercentageCode = sri.PercentageFifteen
	clone.Payments[0].Term = 30

	assert.Equal(t, sri.PercentageZero, doc.Items[0].Taxes[0].PercentageCode)
	assert.Equal(t, 0, doc.Payments[0].Term)
}
