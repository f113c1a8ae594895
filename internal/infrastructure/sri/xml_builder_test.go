package sri_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity/entitytest"
	infrasri "github.com/jhoicas/sri-facturacion/internal/infrastructure/sri"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

func buildInvoiceXML(t *testing.T) []byte {
	t.Helper()
	doc := entitytest.Invoice()
	out, err := infrasri.NewXMLBuilderService().Build(&doc, entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	return out
}

func TestXMLBuilder_RaizYUnaSolaLinea(t *testing.T) {
	out := string(buildInvoiceXML(t))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?><factura id="comprobante" version="1.1.0">`))
	assert.NotContains(t, out, "\n")
	assert.True(t, strings.HasSuffix(out, "</factura>"))
}

func TestXMLBuilder_RoundTripClaveAcceso(t *testing.T) {
	key, err := infrasri.ExtractAccessKey(buildInvoiceXML(t))
	require.NoError(t, err)
	assert.Equal(t, entitytest.InvoiceAccessKey, key)
}

func TestXMLBuilder_Totales(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buildInvoiceXML(t)))

	info := doc.FindElement("//infoFactura")
	require.NotNil(t, info)
	assert.Equal(t, "15/03/2024", info.FindElement("fechaEmision").Text())
	assert.Equal(t, "205.00", info.FindElement("totalSinImpuestos").Text())
	assert.Equal(t, "0.00", info.FindElement("totalDescuento").Text())
	assert.Equal(t, "0.00", info.FindElement("propina").Text())
	assert.Equal(t, "212.95", info.FindElement("importeTotal").Text())
	assert.Equal(t, sri.CurrencyDollar, info.FindElement("moneda").Text())

	totals := info.FindElements("totalConImpuestos/totalImpuesto")
	require.Len(t, totals, 5)
	assert.Equal(t, sri.PercentageFourteen, totals[2].FindElement("codigoPorcentaje").Text())
	assert.Equal(t, "37.50", totals[2].FindElement("baseImponible").Text())
	assert.Equal(t, "5.25", totals[2].FindElement("valor").Text())

	pago := info.FindElement("pagos/pago")
	require.NotNil(t, pago)
	assert.Equal(t, sri.PaymentCash, pago.FindElement("formaPago").Text())
	assert.Equal(t, "212.95", pago.FindElement("total").Text())
	assert.Equal(t, "dias", pago.FindElement("unidadTiempo").Text())
}

func TestXMLBuilder_DetallesConTarifaDerivada(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buildInvoiceXML(t)))

	detalles := doc.FindElements("//detalles/detalle")
	require.Len(t, detalles, 5)
	imp := detalles[1].FindElement("impuestos/impuesto")
	require.NotNil(t, imp)
	assert.Equal(t, "12", imp.FindElement("tarifa").Text())
	assert.Equal(t, "22.50", imp.FindElement("baseImponible").Text())
	assert.Equal(t, "2.70", imp.FindElement("valor").Text())
	assert.Equal(t, "1.00", detalles[1].FindElement("cantidad").Text())
}

func TestXMLBuilder_PropinaSeSumaAlImporteTotal(t *testing.T) {
	in := entitytest.Invoice()
	in.Tip = decimal.RequireFromString("2.05")
	out, err := infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "2.05", doc.FindElement("//infoFactura/propina").Text())
	assert.Equal(t, "215.00", doc.FindElement("//infoFactura/importeTotal").Text())
}

func TestXMLBuilder_InfoAdicionalYNormalizacion(t *testing.T) {
	in := entitytest.Invoice()
	// Entrada en NFD (letra + acento combinante); el XML debe salir en NFC.
	in.Customer.Name = "Compan\u0303i\u0301a Quiten\u0303a"
	out, err := infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "Compa\u00f1\u00eda Quite\u00f1a", doc.FindElement("//razonSocialComprador").Text())

	campos := doc.FindElements("//infoAdicional/campoAdicional")
	require.Len(t, campos, 2)
	assert.Equal(t, "Email", campos[0].SelectAttrValue("nombre", ""))
	assert.Equal(t, "facturas@quitena.ec", campos[0].Text())

	in.Customer.Email, in.Customer.Phone = "", ""
	out, err = infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "infoAdicional")
}

func TestXMLBuilder_Errores(t *testing.T) {
	svc := infrasri.NewXMLBuilderService()
	in := entitytest.Invoice()

	_, err := svc.Build(&in, "123")
	assert.ErrorIs(t, err, sri.ErrInvalidKey)

	in.DocumentType = sri.DocumentTypeCreditNote
	_, err = svc.Build(&in, entitytest.InvoiceAccessKey)
	assert.Error(t, err)

	_, err = infrasri.ExtractAccessKey([]byte("<factura/>"))
	assert.ErrorIs(t, err, infrasri.ErrAccessKeyNotFound)
}

func TestXMLBuilder_TextosMultilineaQuedanEnUnaLinea(t *testing.T) {
	in := entitytest.Invoice()
	in.Items[0].Description = "Linea uno\nLinea dos"
	in.Emitter.MatrixAddress = "Av. 6 de Diciembre\r\ny 10 de Agosto"
	in.Customer.Email = "facturas@quitena.ec\n"
	out, err := infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "\n")
	assert.NotContains(t, string(out), "\r")
	assert.NotContains(t, string(out), "&#xD;")
	assert.NotContains(t, string(out), "&#xA;")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "Linea unoLinea dos", doc.FindElement("//detalles/detalle/descripcion").Text())
	assert.Equal(t, "Av. 6 de Diciembrey 10 de Agosto", doc.FindElement("//infoTributaria/dirMatriz").Text())
	assert.Equal(t, "facturas@quitena.ec", doc.FindElement("//infoAdicional/campoAdicional").Text())
}

func TestXMLBuilder_NombreComercialOpcional(t *testing.T) {
	in := entitytest.Invoice()
	in.Emitter.TradeName = ""
	out, err := infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "nombreComercial")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buildInvoiceXML(t)))
	assert.Equal(t, "Andina", doc.FindElement("//infoTributaria/nombreComercial").Text())
}

func TestXMLBuilder_DescuentoAdicionalEnTotales(t *testing.T) {
	in := entitytest.Invoice()
	in.Items[0].Taxes[0].AdditionalDiscount = decimal.RequireFromString("1.5")
	out, err := infrasri.NewXMLBuilderService().Build(&in, entitytest.InvoiceAccessKey)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	descuentos := doc.FindElements("//totalConImpuestos/totalImpuesto/descuentoAdicional")
	require.Len(t, descuentos, 1)
	assert.Equal(t, "1.50", descuentos[0].Text())
}
