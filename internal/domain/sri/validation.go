// Package sri contiene las reglas de dominio de los comprobantes electrónicos del SRI:
// validación estructural del Document y obtención de su clave de acceso.
// Usa los catálogos y el algoritmo de clave de pkg/sri.
package sri

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ErrInvalidDocument agrupa errores de validación estructural del comprobante.
var ErrInvalidDocument = errors.New("comprobante inválido para el SRI")

// NewDocument valida el documento y devuelve una copia profunda inmutable.
// Todos los errores encontrados se devuelven juntos (errors.Join) envolviendo ErrInvalidDocument.
func NewDocument(doc entity.Document) (*entity.Document, error) {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !catalog.IsValidEnvironment(doc.Environment) {
		add("ambiente %q no reconocido", doc.Environment)
	}
	if !catalog.ValidDocumentTypes[doc.DocumentType] {
		add("tipo de comprobante %q no reconocido", doc.DocumentType)
	}
	if doc.EmissionType != catalog.EmissionTypeNormal {
		add("tipo de emisión %q no reconocido", doc.EmissionType)
	}

	// Emisor.
	if !isDigitsLen(doc.Emitter.RUC, 13, 13) {
		add("RUC del emisor debe tener 13 dígitos: %q", doc.Emitter.RUC)
	}
	if n := utf8.RuneCountInString(doc.Emitter.BusinessName); n < 3 || n > 300 {
		add("razón social debe tener entre 3 y 300 caracteres")
	}
	if n := utf8.RuneCountInString(doc.Emitter.TradeName); n > 0 && (n < 3 || n > 300) {
		add("nombre comercial debe tener entre 3 y 300 caracteres")
	}
	if doc.Emitter.KeepsAccounting != "SI" && doc.Emitter.KeepsAccounting != "NO" {
		add("obligado a llevar contabilidad debe ser SI o NO: %q", doc.Emitter.KeepsAccounting)
	}

	// Numeración.
	if !isDigitsLen(doc.Establishment, 3, 3) {
		add("establecimiento debe tener 3 dígitos: %q", doc.Establishment)
	}
	if !isDigitsLen(doc.EmissionPoint, 3, 3) {
		add("punto de emisión debe tener 3 dígitos: %q", doc.EmissionPoint)
	}
	if !isDigitsLen(doc.Sequential, 9, 9) {
		add("secuencial debe tener 9 dígitos: %q", doc.Sequential)
	}
	if !isDigitsLen(doc.NumericCode, 1, 8) {
		add("código numérico debe tener entre 1 y 8 dígitos: %q", doc.NumericCode)
	}
	if doc.EmissionDate.IsZero() {
		add("fecha de emisión obligatoria")
	}

	// Comprador.
	if !catalog.ValidIdentificationTypes[doc.Customer.IdentificationType] {
		add("tipo de identificación del comprador %q no reconocido", doc.Customer.IdentificationType)
	}
	if doc.Customer.Identification == "" {
		add("identificación del comprador obligatoria")
	}
	if doc.Customer.Name == "" {
		add("razón social del comprador obligatoria")
	}

	// Líneas e impuestos.
	if len(doc.Items) == 0 {
		add("el comprobante debe tener al menos un detalle")
	}
	for i, item := range doc.Items {
		if item.Description == "" {
			add("detalle %d: descripción obligatoria", i+1)
		}
		if item.Quantity.IsNegative() || item.PriceTotalWithoutTax.IsNegative() || item.Discount.IsNegative() {
			add("detalle %d: cantidad, descuento y total sin impuestos no pueden ser negativos", i+1)
		}
		for j, tax := range item.Taxes {
			if !catalog.ValidTaxCodes[tax.Code] {
				add("detalle %d impuesto %d: código %q no reconocido", i+1, j+1, tax.Code)
			}
			if !catalog.IsValidPercentageCode(tax.PercentageCode) {
				add("detalle %d impuesto %d: código de porcentaje %q no reconocido", i+1, j+1, tax.PercentageCode)
			}
			if tax.Value.IsNegative() || tax.Base.IsNegative() || tax.AdditionalDiscount.IsNegative() {
				add("detalle %d impuesto %d: base, valor y descuento adicional no pueden ser negativos", i+1, j+1)
			}
		}
	}

	// Pagos.
	for i, p := range doc.Payments {
		if !catalog.ValidPaymentMethods[p.Method] {
			add("pago %d: forma de pago %q no reconocida", i+1, p.Method)
		}
		if p.Total.IsNegative() {
			add("pago %d: total no puede ser negativo", i+1)
		}
		if p.Term < 0 {
			add("pago %d: plazo no puede ser negativo", i+1)
		}
	}
	if doc.Tip.IsNegative() {
		add("propina no puede ser negativa")
	}

	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidDocument}, errs...)...)
	}
	return doc.Clone(), nil
}

// AccessKey genera la clave de acceso de 49 dígitos del documento.
func AccessKey(doc *entity.Document) (string, error) {
	return catalog.BuildAccessKey(catalog.AccessKeyParams{
		EmissionDate:  doc.EmissionDate,
		DocumentType:  doc.DocumentType,
		RUC:           doc.Emitter.RUC,
		Environment:   doc.Environment,
		Establishment: doc.Establishment,
		EmissionPoint: doc.EmissionPoint,
		Sequential:    doc.Sequential,
		NumericCode:   doc.NumericCode,
		EmissionType:  doc.EmissionType,
	})
}

// PaymentsMismatch devuelve la diferencia entre el importe total y la suma de pagos.
// Cero cuando cuadran; el SRI rechaza comprobantes cuyos pagos no suman el importe total.
func PaymentsMismatch(doc *entity.Document) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range doc.Payments {
		paid = paid.Add(p.Total)
	}
	return doc.AmountDue().Sub(paid)
}

func isDigitsLen(s string, lo, hi int) bool {
	if len(s) < lo || len(s) > hi {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
