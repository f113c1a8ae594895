package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxItem impuesto aplicado a una línea (código, tramo, base imponible y valor).
type TaxItem struct {
	Code               string          `json:"codigo"`            // Tabla 16: 2 IVA, 3 ICE, 5 IRBPNR
	PercentageCode     string          `json:"codigo_porcentaje"` // Tabla 17: tramo
	Rate               string          `json:"tarifa,omitempty"`  // vacío: se deriva del tramo
	Base               decimal.Decimal `json:"base_imponible"`
	Value              decimal.Decimal `json:"valor"`
	AdditionalDiscount decimal.Decimal `json:"descuento_adicional"`
}

// PaymentItem forma de pago.
type PaymentItem struct {
	Method   string          `json:"forma_pago"`
	Total    decimal.Decimal `json:"total"`
	Term     int             `json:"plazo"`
	TimeUnit string          `json:"unidad_tiempo"`
}

// LineItem línea de detalle; es dueña de sus impuestos.
type LineItem struct {
	Code                 string          `json:"codigo_principal"`
	AuxCode              string          `json:"codigo_auxiliar,omitempty"`
	Description          string          `json:"descripcion"`
	Quantity             decimal.Decimal `json:"cantidad"`
	UnitPrice            decimal.Decimal `json:"precio_unitario"`
	Discount             decimal.Decimal `json:"descuento"`
	PriceTotalWithoutTax decimal.Decimal `json:"precio_total_sin_impuesto"`
	Taxes                []TaxItem       `json:"impuestos"`
}

// Emitter datos del emisor (infoTributaria).
type Emitter struct {
	BusinessName         string `json:"razon_social"`
	TradeName            string `json:"nombre_comercial,omitempty"`
	RUC                  string `json:"ruc"`
	MatrixAddress        string `json:"dir_matriz"`
	EstablishmentAddress string `json:"dir_establecimiento"`
	SpecialTaxpayer      string `json:"contribuyente_especial,omitempty"`
	KeepsAccounting      string `json:"obligado_contabilidad"` // SI | NO
	Phone                string `json:"telefono,omitempty"`
}

// Customer datos del comprador.
type Customer struct {
	Name               string `json:"razon_social"`
	Identification     string `json:"identificacion"`
	IdentificationType string `json:"tipo_identificacion"`
	Address            string `json:"direccion"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"telefono,omitempty"`
}

// Document comprobante electrónico listo para generar clave de acceso, XML y firma.
// Los totales no se almacenan: se derivan de las líneas.
type Document struct {
	Environment   string    `json:"ambiente"`
	DocumentType  string    `json:"tipo_comprobante"`
	Emitter       Emitter   `json:"emisor"`
	Establishment string    `json:"establecimiento"`
	EmissionPoint string    `json:"punto_emision"`
	EmissionDate  time.Time `json:"fecha_emision"`
	Sequential    string    `json:"secuencial"`
	NumericCode   string    `json:"codigo_numerico"`
	EmissionType  string    `json:"tipo_emision"`

	Customer Customer        `json:"comprador"`
	Items    []LineItem      `json:"detalles"`
	Payments []PaymentItem   `json:"pagos"`
	Tip      decimal.Decimal `json:"propina"`

	// Referencia al certificado de firma (.p12); nunca se serializa.
	CertificatePath     string `json:"-"`
	CertificatePassword string `json:"-"`

	// Extras del RIDE.
	LogoPath string `json:"logo,omitempty"`
}

// TaxTotal total agrupado por código de impuesto y tramo (totalConImpuestos).
type TaxTotal struct {
	Code               string
	PercentageCode     string
	Base               decimal.Decimal
	Value              decimal.Decimal
	AdditionalDiscount decimal.Decimal
}

// Series establecimiento + punto de emisión (ej. "001001").
func (d *Document) Series() string {
	return d.Establishment + d.EmissionPoint
}

// Number número de comprobante para el RIDE (ej. "001-001-000000005").
func (d *Document) Number() string {
	return d.Establishment + "-" + d.EmissionPoint + "-" + d.Sequential
}

// SubtotalForBracket suma la base imponible de los impuestos del tramo indicado.
func (d *Document) SubtotalForBracket(percentageCode string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		for _, tax := range item.Taxes {
			if tax.PercentageCode == percentageCode {
				total = total.Add(tax.Base)
			}
		}
	}
	return total
}

// TotalTax suma de los valores de todos los impuestos de todas las líneas.
func (d *Document) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		for _, tax := range item.Taxes {
			total = total.Add(tax.Value)
		}
	}
	return total
}

// TotalWithoutTax suma del precio total sin impuestos de las líneas.
func (d *Document) TotalWithoutTax() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.PriceTotalWithoutTax)
	}
	return total
}

// TotalDiscount suma de los descuentos de las líneas.
func (d *Document) TotalDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Discount)
	}
	return total
}

// GrandTotal total sin impuestos más impuestos.
func (d *Document) GrandTotal() decimal.Decimal {
	return d.TotalWithoutTax().Add(d.TotalTax())
}

// AmountDue importeTotal: GrandTotal más propina.
func (d *Document) AmountDue() decimal.Decimal {
	return d.GrandTotal().Add(d.Tip)
}

// TaxTotals agrupa los impuestos por (código, tramo) en orden de primera aparición.
func (d *Document) TaxTotals() []TaxTotal {
	var out []TaxTotal
	index := make(map[string]int)
	for _, item := range d.Items {
		for _, tax := range item.Taxes {
			k := tax.Code + "|" + tax.PercentageCode
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, TaxTotal{
					Code:               tax.Code,
					PercentageCode:     tax.PercentageCode,
					Base:               decimal.Zero,
					Value:              decimal.Zero,
					AdditionalDiscount: decimal.Zero,
				})
			}
			out[i].Base = out[i].Base.Add(tax.Base)
			out[i].Value = out[i].Value.Add(tax.Value)
			out[i].AdditionalDiscount = out[i].AdditionalDiscount.Add(tax.AdditionalDiscount)
		}
	}
	return out
}

// Clone copia profunda (líneas, impuestos y pagos).
func (d *Document) Clone() *Document {
	c := *d
	c.Items = make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		item.Taxes = append([]TaxItem(nil), item.Taxes...)
		c.Items[i] = item
	}
	c.Payments = append([]PaymentItem(nil), d.Payments...)
	return &c
}
