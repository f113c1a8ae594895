package emission

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de secuenciales y comprobantes.
// Si fn retorna error se hace rollback (el secuencial reservado no se consume).
type TxRunner interface {
	RunEmission(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		comprobanteRepo repository.ComprobanteRepository,
	) error) error
}

// XMLBuilder genera el XML sin firma del comprobante.
type XMLBuilder interface {
	Build(doc *entity.Document, accessKey string) ([]byte, error)
}

// CertificateLoader carga el certificado de firma (PKCS#12) con su contraseña.
type CertificateLoader func(path, password string) (tls.Certificate, error)

// RIDEData datos que necesita la representación impresa de un comprobante autorizado.
type RIDEData struct {
	Document            *entity.Document
	AccessKey           string
	Status              string
	AuthorizationNumber string
	AuthorizedAt        *time.Time
}

// RIDEGenerator genera el PDF (RIDE) del comprobante.
type RIDEGenerator interface {
	GenerateRIDE(ctx context.Context, data RIDEData) ([]byte, error)
}
