// Package pdf implementa el RIDE (Representación Impresa del Documento Electrónico)
// de la factura electrónica del SRI.
//
// Layout de la página A4:
//
//	┌──────────────────────────────┬──────────────────────────────┐
//	│  LOGO + Razón social         │  RUC / FACTURA / No.         │
//	│  Dirección matriz/sucursal   │  Autorización + fecha        │
//	│  Contribuyente / contab.     │  Ambiente / Emisión          │
//	│                              │  CLAVE DE ACCESO (Code128)   │
//	├──────────────────────────────┴──────────────────────────────┤
//	│  COMPRADOR: Razón social / Identificación / Fecha / Dir.    │
//	├─────────────────────────────────────────────────────────────┤
//	│  Cód. | Cant. | Descripción | P.Unit | Desc. | P.Total       │
//	├──────────────────────────────┬──────────────────────────────┤
//	│  Info adicional + pagos      │  Subtotales por tramo / IVA  │
//	└──────────────────────────────┴──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ emission.RIDEGenerator = (*MarotoRIDEGenerator)(nil)

// MarotoRIDEGenerator implementa emission.RIDEGenerator usando Maroto v2.
type MarotoRIDEGenerator struct {
	logoPath string // logo por defecto; Document.LogoPath tiene prioridad
}

// NewMarotoRIDEGenerator construye el generador. logoPath puede estar vacío.
func NewMarotoRIDEGenerator(logoPath string) *MarotoRIDEGenerator {
	return &MarotoRIDEGenerator{logoPath: logoPath}
}

// GenerateRIDE genera el PDF y devuelve sus bytes.
func (g *MarotoRIDEGenerator) GenerateRIDE(_ context.Context, data emission.RIDEData) ([]byte, error) {
	doc := data.Document
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento nulo")
	}
	if data.AccessKey == "" {
		return nil, fmt.Errorf("pdf: clave de acceso vacía")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("RIDE Factura "+doc.Number(), true).
		WithAuthor(doc.Emitter.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, data, g.resolveLogo(doc)))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdf.GetBytes(), nil
}

// resolveLogo solo usa el logo si el archivo existe; un logo faltante no impide generar el RIDE.
func (g *MarotoRIDEGenerator) resolveLogo(doc *entity.Document) string {
	for _, p := range []string{doc.LogoPath, g.logoPath} {
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo y emisor (izq), recuadro tributario con la clave de acceso (der).
func headerRow(doc *entity.Document, data emission.RIDEData, logoPath string) core.Row {
	left := col.New(6)
	top := 1.0
	if logoPath != "" {
		left.Add(image.NewFromFile(logoPath, props.Rect{Percent: 90, Top: 0, Left: 0}))
		top = 22
	}
	left.Add(
		text.New(doc.Emitter.BusinessName, props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: top,
		}),
		text.New(nonEmpty(doc.Emitter.TradeName, doc.Emitter.BusinessName), props.Text{
			Size: 8, Top: top + 6,
		}),
		text.New("Dirección Matriz: "+doc.Emitter.MatrixAddress, props.Text{
			Size: 7, Top: top + 11, Color: colorGray,
		}),
		text.New("Dirección Sucursal: "+nonEmpty(doc.Emitter.EstablishmentAddress, doc.Emitter.MatrixAddress), props.Text{
			Size: 7, Top: top + 15, Color: colorGray,
		}),
	)
	if doc.Emitter.SpecialTaxpayer != "" {
		left.Add(text.New("Contribuyente Especial Nro: "+doc.Emitter.SpecialTaxpayer, props.Text{
			Size: 7, Top: top + 19, Color: colorGray,
		}))
	}
	left.Add(text.New("OBLIGADO A LLEVAR CONTABILIDAD: "+doc.Emitter.KeepsAccounting, props.Text{
		Size: 7, Top: top + 23, Color: colorGray,
	}))

	authNumber := nonEmpty(data.AuthorizationNumber, data.AccessKey)
	authDate := "-"
	if data.AuthorizedAt != nil {
		authDate = data.AuthorizedAt.Format("02/01/2006 15:04:05")
	}

	right := col.New(6).Add(
		text.New("R.U.C.: "+doc.Emitter.RUC, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1, Left: 2}),
		text.New("FACTURA", props.Text{Style: fontstyle.Bold, Size: 12, Top: 7, Left: 2, Color: colorPrimary}),
		text.New("No. "+doc.Number(), props.Text{Style: fontstyle.Bold, Size: 9, Top: 14, Left: 2}),
		text.New("NÚMERO DE AUTORIZACIÓN", props.Text{Style: fontstyle.Bold, Size: 7, Top: 20, Left: 2}),
		text.New(authNumber, props.Text{Size: 7, Top: 24, Left: 2}),
		text.New("FECHA Y HORA DE AUTORIZACIÓN: "+authDate, props.Text{Size: 7, Top: 29, Left: 2}),
		text.New("AMBIENTE: "+environmentLabel(doc.Environment), props.Text{Size: 7, Top: 33, Left: 2}),
		text.New("EMISIÓN: NORMAL", props.Text{Size: 7, Top: 37, Left: 2}),
		text.New("CLAVE DE ACCESO", props.Text{Style: fontstyle.Bold, Size: 7, Top: 42, Left: 2}),
		code.NewBar(data.AccessKey, props.Barcode{Percent: 90, Top: 46, Center: true}),
		text.New(data.AccessKey, props.Text{Size: 6.5, Top: 60, Align: align.Center}),
	)

	return row.New(66).Add(left, right)
}

// customerRow: datos del comprador.
func customerRow(doc *entity.Document) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Razón Social / Nombres y Apellidos: "+doc.Customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
			text.New("Dirección: "+nonEmpty(doc.Customer.Address, "-"), props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Identificación: "+doc.Customer.Identification, props.Text{
				Size: 8, Top: 1, Align: align.Right,
			}),
			text.New("Fecha Emisión: "+doc.EmissionDate.Format("02/01/2006"), props.Text{
				Size: 8, Top: 6, Align: align.Right,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cód. Principal", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("P. Unitario", 1, align.Right),
		h("Descuento", 1, align.Right),
		h("Precio Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea de detalle.
func tableDetailRows(doc *entity.Document) []core.Row {
	result := make([]core.Row, 0, len(doc.Items))
	for _, item := range doc.Items {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(item.Code, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(1).Add(text.New(trimQuantity(item.Quantity), props.Text{Size: 7.5, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(item.Description, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatMoney(item.UnitPrice), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatMoney(item.Discount), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(item.PriceTotalWithoutTax), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: información adicional y pagos (izq), totales (der).
func footerRow(doc *entity.Document) core.Row {
	info := col.New(6)
	top := 1.0
	info.Add(text.New("Información Adicional", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: top}))
	top += 5
	if doc.Customer.Email != "" {
		info.Add(text.New("Email: "+doc.Customer.Email, props.Text{Size: 7.5, Top: top}))
		top += 4
	}
	if doc.Customer.Phone != "" {
		info.Add(text.New("Teléfono: "+doc.Customer.Phone, props.Text{Size: 7.5, Top: top}))
		top += 4
	}
	top += 3
	info.Add(text.New("Forma de Pago", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: top}))
	top += 5
	for _, p := range doc.Payments {
		info.Add(text.New(fmt.Sprintf("%s  %s", catalog.PaymentMethodName(p.Method), formatMoney(p.Total)), props.Text{
			Size: 7, Top: top,
		}))
		top += 4
	}

	labels := col.New(4)
	values := col.New(2)
	lines := totalLines(doc)
	for i, l := range lines {
		y := 1 + float64(i)*4.5
		style := fontstyle.Normal
		if i == len(lines)-1 {
			style = fontstyle.Bold
		}
		labels.Add(text.New(l.label, props.Text{Size: 7.5, Style: style, Align: align.Right, Right: 2, Top: y}))
		values.Add(text.New(formatMoney(l.value), props.Text{Size: 7.5, Style: style, Align: align.Right, Right: 1, Top: y}))
	}

	height := 6 + float64(len(lines))*4.5
	if top+4 > height {
		height = top + 4
	}
	return row.New(height).Add(info, labels, values)
}

type totalLine struct {
	label string
	value decimal.Decimal
}

// totalLines subtotales por tramo (los reportados siempre, 15% solo si aparece), IVA, propina y total.
func totalLines(doc *entity.Document) []totalLine {
	var out []totalLine
	brackets := catalog.ReportedBrackets
	if !doc.SubtotalForBracket(catalog.PercentageFifteen).IsZero() {
		brackets = append([]string{catalog.PercentageFifteen}, brackets...)
	}
	for _, code := range brackets {
		out = append(out, totalLine{label: bracketLabel(code), value: doc.SubtotalForBracket(code)})
	}
	out = append(out,
		totalLine{label: "SUBTOTAL SIN IMPUESTOS", value: doc.TotalWithoutTax()},
		totalLine{label: "TOTAL DESCUENTO", value: doc.TotalDiscount()},
	)
	for _, t := range doc.TaxTotals() {
		if t.Code != catalog.TaxCodeIVA || t.Value.IsZero() {
			continue
		}
		out = append(out, totalLine{label: "IVA " + catalog.RateForPercentageCode(t.PercentageCode) + "%", value: t.Value})
	}
	out = append(out,
		totalLine{label: "PROPINA", value: doc.Tip},
		totalLine{label: "VALOR TOTAL", value: doc.AmountDue()},
	)
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func bracketLabel(code string) string {
	switch code {
	case catalog.PercentageNoTax:
		return "SUBTOTAL NO OBJETO DE IVA"
	case catalog.PercentageTaxExempt:
		return "SUBTOTAL EXENTO DE IVA"
	default:
		return "SUBTOTAL " + catalog.RateForPercentageCode(code) + "%"
	}
}

func environmentLabel(env string) string {
	if env == catalog.EnvironmentProduction {
		return "PRODUCCIÓN"
	}
	return "PRUEBAS"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con separador de miles.
// Ej: 1234.5 → "1,234.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}

// trimQuantity cantidad sin ceros decimales sobrantes (2.500000 → 2.5).
func trimQuantity(d decimal.Decimal) string {
	return d.Round(6).String()
}
