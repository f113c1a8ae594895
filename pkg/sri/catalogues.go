// Package sri contiene catálogos, clave de acceso y contratos para comprobantes
// electrónicos del SRI (Ecuador), según la Ficha Técnica de Comprobantes Electrónicos
// (esquema offline, factura V1.1.0).
package sri

// =============================================================================
// Tabla 4 - Ambiente
// =============================================================================

const (
	EnvironmentTest       = "1" // Pruebas (celcer.sri.gob.ec)
	EnvironmentProduction = "2" // Producción (cel.sri.gob.ec)
)

// IsValidEnvironment indica si el ambiente es pruebas o producción.
func IsValidEnvironment(env string) bool {
	return env == EnvironmentTest || env == EnvironmentProduction
}

// =============================================================================
// Tabla 2 - Tipo de emisión
// =============================================================================

const (
	EmissionTypeNormal = "1" // Emisión normal
)

// =============================================================================
// Tabla 3 - Tipos de comprobante
// =============================================================================

const (
	DocumentTypeInvoice       = "01" // Factura
	DocumentTypeCreditNote    = "04" // Nota de crédito
	DocumentTypeDebitNote     = "05" // Nota de débito
	DocumentTypeShippingGuide = "06" // Guía de remisión
	DocumentTypeWithholding   = "07" // Comprobante de retención
)

// ValidDocumentTypes tipos de comprobante aceptados por el esquema offline.
var ValidDocumentTypes = map[string]bool{
	DocumentTypeInvoice:       true,
	DocumentTypeCreditNote:    true,
	DocumentTypeDebitNote:     true,
	DocumentTypeShippingGuide: true,
	DocumentTypeWithholding:   true,
}

// =============================================================================
// Tabla 6 - Tipo de identificación del comprador
// =============================================================================

const (
	IdentificationRUC           = "04" // RUC
	IdentificationCedula        = "05" // Cédula
	IdentificationPassport      = "06" // Pasaporte
	IdentificationFinalConsumer = "07" // Consumidor final (9999999999999)
	IdentificationForeign       = "08" // Identificación del exterior
)

// ValidIdentificationTypes tipos de identificación válidos.
var ValidIdentificationTypes = map[string]bool{
	IdentificationRUC:           true,
	IdentificationCedula:        true,
	IdentificationPassport:      true,
	IdentificationFinalConsumer: true,
	IdentificationForeign:       true,
}

// =============================================================================
// Tabla 16 - Códigos de impuesto
// =============================================================================

const (
	TaxCodeIVA    = "2" // IVA
	TaxCodeICE    = "3" // ICE
	TaxCodeIRBPNR = "5" // Impuesto Redimible a las Botellas Plásticas No Retornables
)

// ValidTaxCodes códigos de impuesto válidos.
var ValidTaxCodes = map[string]bool{
	TaxCodeIVA:    true,
	TaxCodeICE:    true,
	TaxCodeIRBPNR: true,
}

// =============================================================================
// Tabla 17 - Código de porcentaje (tarifa) de IVA
// El código identifica el tramo, no el porcentaje numérico.
// =============================================================================

const (
	PercentageZero      = "0" // 0%
	PercentageTwelve    = "2" // 12%
	PercentageFourteen  = "3" // 14%
	PercentageFifteen   = "4" // 15%
	PercentageNoTax     = "6" // No objeto de impuesto
	PercentageTaxExempt = "7" // Exento de IVA
)

// percentageRates tarifa numérica de cada tramo (para cbc tarifa en detalles).
var percentageRates = map[string]string{
	PercentageZero:      "0",
	PercentageTwelve:    "12",
	PercentageFourteen:  "14",
	PercentageFifteen:   "15",
	PercentageNoTax:     "0",
	PercentageTaxExempt: "0",
}

// IsValidPercentageCode indica si el código de porcentaje pertenece a un tramo conocido.
func IsValidPercentageCode(code string) bool {
	_, ok := percentageRates[code]
	return ok
}

// RateForPercentageCode devuelve la tarifa (ej. "12") del tramo; "" si no existe.
func RateForPercentageCode(code string) string {
	return percentageRates[code]
}

// ReportedBrackets tramos que el RIDE y los totales reportan siempre, en orden de impresión.
var ReportedBrackets = []string{
	PercentageZero,
	PercentageTwelve,
	PercentageFourteen,
	PercentageNoTax,
	PercentageTaxExempt,
}

// =============================================================================
// Tabla 24 - Formas de pago
// =============================================================================

const (
	PaymentCash             = "01" // Sin utilización del sistema financiero
	PaymentDebtCompensation = "15" // Compensación de deudas
	PaymentDebitCard        = "16" // Tarjeta de débito
	PaymentElectronicMoney  = "17" // Dinero electrónico
	PaymentPrepaidCard      = "18" // Tarjeta prepago
	PaymentCreditCard       = "19" // Tarjeta de crédito
	PaymentOthers           = "20" // Otros con utilización del sistema financiero
	PaymentEndorsement      = "21" // Endoso de títulos
)

// ValidPaymentMethods formas de pago válidas.
var ValidPaymentMethods = map[string]bool{
	PaymentCash:             true,
	PaymentDebtCompensation: true,
	PaymentDebitCard:        true,
	PaymentElectronicMoney:  true,
	PaymentPrepaidCard:      true,
	PaymentCreditCard:       true,
	PaymentOthers:           true,
	PaymentEndorsement:      true,
}

var paymentMethodNames = map[string]string{
	PaymentCash:             "SIN UTILIZACION DEL SISTEMA FINANCIERO",
	PaymentDebtCompensation: "COMPENSACIÓN DE DEUDAS",
	PaymentDebitCard:        "TARJETA DE DÉBITO",
	PaymentElectronicMoney:  "DINERO ELECTRÓNICO",
	PaymentPrepaidCard:      "TARJETA PREPAGO",
	PaymentCreditCard:       "TARJETA DE CRÉDITO",
	PaymentOthers:           "OTROS CON UTILIZACION DEL SISTEMA FINANCIERO",
	PaymentEndorsement:      "ENDOSO DE TÍTULOS",
}

// PaymentMethodName descripción de la forma de pago para el RIDE; devuelve el código si no se conoce.
func PaymentMethodName(code string) string {
	if name, ok := paymentMethodNames[code]; ok {
		return name
	}
	return code
}

// Unidad de tiempo del plazo de pago.
const (
	TimeUnitDays = "dias"
)

// =============================================================================
// Estados devueltos por los web services
// =============================================================================

const (
	ReceptionReceived     = "RECIBIDA"
	ReceptionReturned     = "DEVUELTA"
	AuthorizationApproved = "AUTORIZADO"
	AuthorizationRejected = "NO AUTORIZADO"
	AuthorizationPending  = "EN PROCESO"
)

// Códigos cortos de estado (usados en reportes y persistencia resumida).
const (
	StatusProcessing    = "PPR"
	StatusAuthorized    = "AUT"
	StatusNotAuthorized = "NAT"
)

// Moneda única aceptada por el esquema.
const CurrencyDollar = "DOLAR"

// Consumidor final: identificación fija exigida por el SRI.
const FinalConsumerID = "9999999999999"
