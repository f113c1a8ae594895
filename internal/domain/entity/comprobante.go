package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del comprobante en el ciclo emisión → recepción → autorización.
const (
	ComprobanteStatusSigned        = "FIRMADO"       // XML firmado, aún no enviado (o envío deshabilitado)
	ComprobanteStatusReceived      = "RECIBIDA"      // Recepción aceptó el comprobante
	ComprobanteStatusReturned      = "DEVUELTA"      // Recepción lo devolvió con errores
	ComprobanteStatusAuthorized    = "AUTORIZADO"    // Autorización aprobada
	ComprobanteStatusNotAuthorized = "NO AUTORIZADO" // Autorización rechazada
	ComprobanteStatusError         = "ERROR"         // Falló transporte o firma después de reservar el secuencial
)

// Comprobante registro persistido de un comprobante emitido.
type Comprobante struct {
	ID                  string
	AccessKey           string // Clave de acceso de 49 dígitos
	DocumentType        string
	Environment         string
	EmitterRUC          string
	Establishment       string
	EmissionPoint       string
	Sequential          string
	EmissionDate        time.Time
	CustomerID          string
	Total               decimal.Decimal // importeTotal
	Status              string
	SignedXML           string
	AuthorizedXML       string
	AuthorizationNumber string
	AuthorizedAt        *time.Time
	Messages            string // Mensajes del SRI en JSON
	Document            []byte // Document original en JSON, para regenerar el RIDE
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsFinal indica si el comprobante ya no cambiará de estado.
func (c *Comprobante) IsFinal() bool {
	switch c.Status {
	case ComprobanteStatusAuthorized, ComprobanteStatusNotAuthorized, ComprobanteStatusReturned:
		return true
	}
	return false
}
