package sri

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// Esquema factura offline (Ficha Técnica, anexo XSD factura V1.1.0).
const (
	InvoiceSchemaVersion = "1.1.0"
	// ComprobanteID valor del atributo id del nodo raíz; la firma lo referencia como "#comprobante".
	ComprobanteID = "comprobante"
	xmlHeader     = `<?xml version="1.0" encoding="UTF-8"?>`
)

// lineBreaks el comprobante se emite en una sola línea.
var lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")

// ErrAccessKeyNotFound el XML no contiene infoTributaria/claveAcceso.
var ErrAccessKeyNotFound = errors.New("sri: claveAcceso no encontrada en el XML")

// XMLBuilderService construye el XML del comprobante (sin firma), en una sola línea.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el XML <factura id="comprobante" version="1.1.0"> con la clave de acceso indicada.
// Los totales se derivan del documento; los textos se normalizan a NFC.
func (s *XMLBuilderService) Build(doc *entity.Document, accessKey string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("sri: documento nulo")
	}
	if doc.DocumentType != catalog.DocumentTypeInvoice {
		return nil, fmt.Errorf("sri: tipo de comprobante %q no soportado por el generador XML", doc.DocumentType)
	}
	if err := catalog.ValidateAccessKey(accessKey); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	w := &xmlWriter{enc: xml.NewEncoder(&buf)}

	root := xml.StartElement{
		Name: xml.Name{Local: "factura"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "id"}, Value: ComprobanteID},
			{Name: xml.Name{Local: "version"}, Value: InvoiceSchemaVersion},
		},
	}
	w.token(root)
	s.writeInfoTributaria(w, doc, accessKey)
	s.writeInfoFactura(w, doc)
	s.writeDetalles(w, doc)
	s.writeInfoAdicional(w, doc)
	w.token(root.End())

	if w.err != nil {
		return nil, fmt.Errorf("sri: escribir XML: %w", w.err)
	}
	if err := w.enc.Flush(); err != nil {
		return nil, fmt.Errorf("sri: flush XML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractAccessKey lee infoTributaria/claveAcceso de un comprobante (firmado o no).
func ExtractAccessKey(xmlBytes []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return "", fmt.Errorf("sri: parsear XML: %w", err)
	}
	el := doc.FindElement("//infoTributaria/claveAcceso")
	if el == nil {
		return "", ErrAccessKeyNotFound
	}
	return el.Text(), nil
}

func (s *XMLBuilderService) writeInfoTributaria(w *xmlWriter, doc *entity.Document, accessKey string) {
	w.open("infoTributaria")
	w.elem("ambiente", doc.Environment)
	w.elem("tipoEmision", doc.EmissionType)
	w.elem("razonSocial", doc.Emitter.BusinessName)
	if doc.Emitter.TradeName != "" {
		w.elem("nombreComercial", doc.Emitter.TradeName)
	}
	w.elem("ruc", doc.Emitter.RUC)
	w.elem("claveAcceso", accessKey)
	w.elem("codDoc", doc.DocumentType)
	w.elem("estab", doc.Establishment)
	w.elem("ptoEmi", doc.EmissionPoint)
	w.elem("secuencial", doc.Sequential)
	w.elem("dirMatriz", doc.Emitter.MatrixAddress)
	w.close("infoTributaria")
}

func (s *XMLBuilderService) writeInfoFactura(w *xmlWriter, doc *entity.Document) {
	w.open("infoFactura")
	w.elem("fechaEmision", doc.EmissionDate.Format("02/01/2006"))
	if doc.Emitter.EstablishmentAddress != "" {
		w.elem("dirEstablecimiento", doc.Emitter.EstablishmentAddress)
	}
	if doc.Emitter.SpecialTaxpayer != "" {
		w.elem("contribuyenteEspecial", doc.Emitter.SpecialTaxpayer)
	}
	w.elem("obligadoContabilidad", doc.Emitter.KeepsAccounting)
	w.elem("tipoIdentificacionComprador", doc.Customer.IdentificationType)
	w.elem("razonSocialComprador", doc.Customer.Name)
	w.elem("identificacionComprador", doc.Customer.Identification)
	if doc.Customer.Address != "" {
		w.elem("direccionComprador", doc.Customer.Address)
	}
	w.elem("totalSinImpuestos", formatAmount(doc.TotalWithoutTax()))
	w.elem("totalDescuento", formatAmount(doc.TotalDiscount()))

	w.open("totalConImpuestos")
	for _, t := range doc.TaxTotals() {
		w.open("totalImpuesto")
		w.elem("codigo", t.Code)
		w.elem("codigoPorcentaje", t.PercentageCode)
		if t.AdditionalDiscount.IsPositive() {
			w.elem("descuentoAdicional", formatAmount(t.AdditionalDiscount))
		}
		w.elem("baseImponible", formatAmount(t.Base))
		w.elem("valor", formatAmount(t.Value))
		w.close("totalImpuesto")
	}
	w.close("totalConImpuestos")

	w.elem("propina", formatAmount(doc.Tip))
	w.elem("importeTotal", formatAmount(doc.AmountDue()))
	w.elem("moneda", catalog.CurrencyDollar)

	if len(doc.Payments) > 0 {
		w.open("pagos")
		for _, p := range doc.Payments {
			w.open("pago")
			w.elem("formaPago", p.Method)
			w.elem("total", formatAmount(p.Total))
			w.elem("plazo", strconv.Itoa(p.Term))
			timeUnit := p.TimeUnit
			if timeUnit == "" {
				timeUnit = catalog.TimeUnitDays
			}
			w.elem("unidadTiempo", timeUnit)
			w.close("pago")
		}
		w.close("pagos")
	}
	w.close("infoFactura")
}

func (s *XMLBuilderService) writeDetalles(w *xmlWriter, doc *entity.Document) {
	w.open("detalles")
	for _, item := range doc.Items {
		w.open("detalle")
		w.elem("codigoPrincipal", item.Code)
		if item.AuxCode != "" {
			w.elem("codigoAuxiliar", item.AuxCode)
		}
		w.elem("descripcion", item.Description)
		w.elem("cantidad", formatQuantity(item.Quantity))
		w.elem("precioUnitario", formatQuantity(item.UnitPrice))
		w.elem("descuento", formatAmount(item.Discount))
		w.elem("precioTotalSinImpuesto", formatAmount(item.PriceTotalWithoutTax))
		w.open("impuestos")
		for _, tax := range item.Taxes {
			rate := tax.Rate
			if rate == "" {
				rate = catalog.RateForPercentageCode(tax.PercentageCode)
			}
			w.open("impuesto")
			w.elem("codigo", tax.Code)
			w.elem("codigoPorcentaje", tax.PercentageCode)
			w.elem("tarifa", rate)
			w.elem("baseImponible", formatAmount(tax.Base))
			w.elem("valor", formatAmount(tax.Value))
			w.close("impuesto")
		}
		w.close("impuestos")
		w.close("detalle")
	}
	w.close("detalles")
}

// writeInfoAdicional campos adicionales del comprador; se omite si no hay ninguno.
func (s *XMLBuilderService) writeInfoAdicional(w *xmlWriter, doc *entity.Document) {
	var fields [][2]string
	if doc.Customer.Email != "" {
		fields = append(fields, [2]string{"Email", doc.Customer.Email})
	}
	if doc.Customer.Phone != "" {
		fields = append(fields, [2]string{"Telefono", doc.Customer.Phone})
	}
	if len(fields) == 0 {
		return
	}
	w.open("infoAdicional")
	for _, f := range fields {
		start := xml.StartElement{
			Name: xml.Name{Local: "campoAdicional"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "nombre"}, Value: f[0]}},
		}
		w.token(start)
		w.text(f[1])
		w.token(start.End())
	}
	w.close("infoAdicional")
}

// xmlWriter conserva el primer error del encoder; las escrituras posteriores se ignoran.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func (w *xmlWriter) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

// text sin saltos de línea y en NFC.
func (w *xmlWriter) text(value string) {
	w.token(xml.CharData(norm.NFC.String(lineBreaks.Replace(value))))
}

func (w *xmlWriter) open(local string) {
	w.token(xml.StartElement{Name: xml.Name{Local: local}})
}

func (w *xmlWriter) close(local string) {
	w.token(xml.EndElement{Name: xml.Name{Local: local}})
}

func (w *xmlWriter) elem(local, value string) {
	w.open(local)
	w.text(value)
	w.close(local)
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// formatQuantity dos decimales salvo que el valor requiera más (hasta 6).
func formatQuantity(d decimal.Decimal) string {
	r := d.Round(6)
	if r.Equal(r.Round(2)) {
		return r.StringFixed(2)
	}
	return r.String()
}
