package signer

import (
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// IssuerSerialEmbedder agrega por cada certificado de la cadena un xades:Cert con
// CertDigest (SHA1 del DER) e IssuerSerial (nombre del emisor CN,OU,O,C y serial decimal).
type IssuerSerialEmbedder struct{}

// EmbedSigningCertificate implementa sri.CertificateEmbedder.
func (IssuerSerialEmbedder) EmbedSigningCertificate(parent *etree.Element, chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return fmt.Errorf("%w: cadena de certificados vacía", sri.ErrSigning)
	}
	for _, cert := range chain {
		digest, issuer, serial := CertDigestAndIssuerSerial(cert)

		certEl := parent.CreateElement(prefixXAdES + ":Cert")
		certDigest := certEl.CreateElement(prefixXAdES + ":CertDigest")
		certDigest.CreateElement(prefixDS+":DigestMethod").CreateAttr("Algorithm", AlgSHA1)
		certDigest.CreateElement(prefixDS + ":DigestValue").SetText(digest)

		issuerSerial := certEl.CreateElement(prefixXAdES + ":IssuerSerial")
		issuerSerial.CreateElement(prefixDS + ":X509IssuerName").SetText(issuer)
		issuerSerial.CreateElement(prefixDS + ":X509SerialNumber").SetText(serial)
	}
	return nil
}

// CertDigestAndIssuerSerial devuelve el digest SHA1 del certificado (Base64), el nombre del
// emisor en el formato "CN=..,OU=..,O=..,C=.." y el serial en decimal.
func CertDigestAndIssuerSerial(cert *x509.Certificate) (digestB64 string, issuerName string, serialDec string) {
	h := sha1.Sum(cert.Raw)
	digestB64 = base64.StdEncoding.EncodeToString(h[:])
	issuerName = fmt.Sprintf("CN=%s,OU=%s,O=%s,C=%s",
		cert.Issuer.CommonName,
		first(cert.Issuer.OrganizationalUnit),
		first(cert.Issuer.Organization),
		first(cert.Issuer.Country),
	)
	serialDec = cert.SerialNumber.String()
	return digestB64, issuerName, serialDec
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

var _ sri.CertificateEmbedder = IssuerSerialEmbedder{}
