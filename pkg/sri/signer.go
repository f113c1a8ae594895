package sri

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/beevik/etree"
)

// Signer firma un comprobante XML y devuelve el XML con el nodo ds:Signature
// agregado como último hijo del elemento raíz (XAdES-BES).
type Signer interface {
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}

// CertificateEmbedder construye el contenido de xades:SigningCertificate.
// El firmante lo recibe inyectado; recibe la cadena completa (hoja primero)
// y agrega un xades:Cert por cada certificado bajo parent.
type CertificateEmbedder interface {
	EmbedSigningCertificate(parent *etree.Element, chain []*x509.Certificate) error
}
