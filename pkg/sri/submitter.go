package sri

import (
	"context"
	"time"
)

// Message mensaje devuelto por recepción o autorización (identificador, tipo, texto).
type Message struct {
	Identifier     string `json:"identificador"`
	Message        string `json:"mensaje"`
	AdditionalInfo string `json:"informacion_adicional,omitempty"`
	Type           string `json:"tipo"`
}

// ReceptionResult resultado de validarComprobante.
type ReceptionResult struct {
	Accepted bool
	Status   string // RECIBIDA | DEVUELTA
	Messages []Message
	Raw      []byte
}

// MessageAccessKeyRegistered identificador de recepción "CLAVE ACCESO REGISTRADA".
const MessageAccessKeyRegistered = "43"

// AlreadyRegistered indica una devolución porque el SRI ya recibió esta clave de acceso;
// el comprobante está en el SRI y su autorización se consulta con la misma clave.
func (r *ReceptionResult) AlreadyRegistered() bool {
	if r == nil || r.Accepted {
		return false
	}
	for _, m := range r.Messages {
		if m.Identifier == MessageAccessKeyRegistered {
			return true
		}
	}
	return false
}

// AuthorizationResult resultado de autorizacionComprobante.
// Una lista de autorizaciones vacía no es error: Authorized=false y Status vacío.
type AuthorizationResult struct {
	Authorized          bool
	Status              string // AUTORIZADO | NO AUTORIZADO | EN PROCESO
	AuthorizationNumber string
	AuthorizationDate   time.Time
	Environment         string
	AuthorizedXML       string // comprobante devuelto dentro de la autorización
	Messages            []Message
	Raw                 []byte
}

// Submitter cliente de los web services offline del SRI.
type Submitter interface {
	SubmitForReception(ctx context.Context, signedXML []byte) (*ReceptionResult, error)
	PollAuthorization(ctx context.Context, accessKey string) (*AuthorizationResult, error)
}

// ShortStatus traduce el estado de autorización a su código corto (AUT, NAT, PPR).
func ShortStatus(status string) string {
	switch status {
	case AuthorizationApproved:
		return StatusAuthorized
	case AuthorizationRejected:
		return StatusNotAuthorized
	default:
		return StatusProcessing
	}
}
