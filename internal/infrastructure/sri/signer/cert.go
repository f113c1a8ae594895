// Carga de certificado desde .p12 (PKCS#12) o par PEM.

package signer

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// LoadCertificate carga el certificado de firma según la extensión del archivo:
// .pem/.crt como par PEM (certificado y llave en el mismo archivo), cualquier otra como PKCS#12.
func LoadCertificate(path, password string) (tls.Certificate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pem", ".crt":
		return LoadFromPEM(path, "")
	default:
		return LoadFromP12(path, password)
	}
}

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx.
// El certificado hoja es el que corresponde a la llave privada; la cadena queda en Certificate[1:].
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: leer p12: %v", sri.ErrCertificateLoad, err)
	}
	return ParseP12(data, password)
}

// ParseP12 igual que LoadFromP12 pero desde memoria.
// Primero decodifica con go-pkcs12 (PBES2/AES y MAC SHA-256, el formato por defecto de OpenSSL 3).
// Los .p12 de algunas entidades de certificación ecuatorianas traen más de una llave;
// esos se leen con pkcs12.ToPEM de x/crypto.
func ParseP12(data []byte, password string) (tls.Certificate, error) {
	key, leaf, chain, err := gopkcs12.DecodeChain(data, password)
	if err == nil {
		signer, ok := key.(crypto.Signer)
		if !ok {
			return tls.Certificate{}, fmt.Errorf("%w: llave privada %T no soportada", sri.ErrCertificateLoad, key)
		}
		return assemble([]crypto.Signer{signer}, append([]*x509.Certificate{leaf}, chain...))
	}
	if errors.Is(err, gopkcs12.ErrIncorrectPassword) {
		return tls.Certificate{}, fmt.Errorf("%w: decodificar p12: %v", sri.ErrCertificateLoad, err)
	}
	return parseLegacyP12(data, password)
}

// parseLegacyP12 lee todas las bolsas del p12 (varias llaves y certificados).
func parseLegacyP12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: decodificar p12: %v", sri.ErrCertificateLoad, err)
	}

	var keys []crypto.Signer
	var certs []*x509.Certificate
	for _, b := range blocks {
		switch b.Type {
		case "CERTIFICATE":
			c, err := x509.ParseCertificate(b.Bytes)
			if err != nil {
				return tls.Certificate{}, fmt.Errorf("%w: parsear certificado: %v", sri.ErrCertificateLoad, err)
			}
			certs = append(certs, c)
		case "PRIVATE KEY", "RSA PRIVATE KEY", "EC PRIVATE KEY":
			k, err := parsePrivateKey(b.Bytes)
			if err != nil {
				return tls.Certificate{}, fmt.Errorf("%w: %v", sri.ErrCertificateLoad, err)
			}
			keys = append(keys, k)
		}
	}
	return assemble(keys, certs)
}

// LoadFromPEM carga certificado y llave desde archivos PEM (por separado o combinados).
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: cargar PEM: %v", sri.ErrCertificateLoad, err)
	}
	if cert.Leaf == nil {
		if cert.Leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return tls.Certificate{}, fmt.Errorf("%w: parsear certificado: %v", sri.ErrCertificateLoad, err)
		}
	}
	return cert, nil
}

// ChainPEM serializa la cadena del certificado en PEM (hoja primero).
func ChainPEM(cert tls.Certificate) []byte {
	var out []byte
	for _, der := range cert.Certificate {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})...)
	}
	return out
}

// assemble elige la hoja que corresponde a una llave privada; entre varias prefiere la de firma digital.
func assemble(keys []crypto.Signer, certs []*x509.Certificate) (tls.Certificate, error) {
	if len(keys) == 0 {
		return tls.Certificate{}, fmt.Errorf("%w: el p12 no contiene llave privada", sri.ErrCertificateLoad)
	}
	if len(certs) == 0 {
		return tls.Certificate{}, fmt.Errorf("%w: el p12 no contiene certificados", sri.ErrCertificateLoad)
	}

	var leaf *x509.Certificate
	var key crypto.Signer
	for _, k := range keys {
		for _, c := range certs {
			if !publicKeysEqual(c.PublicKey, k.Public()) {
				continue
			}
			if leaf == nil || (c.KeyUsage&x509.KeyUsageDigitalSignature != 0 && leaf.KeyUsage&x509.KeyUsageDigitalSignature == 0) {
				leaf, key = c, k
			}
		}
	}
	if leaf == nil {
		return tls.Certificate{}, fmt.Errorf("%w: ningún certificado corresponde a la llave privada", sri.ErrCertificateLoad)
	}

	out := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, c := range certs {
		if c != leaf {
			out.Certificate = append(out.Certificate, c.Raw)
		}
	}
	return out, nil
}

// parsePrivateKey ToPEM entrega llaves RSA como PKCS#1 bajo el tipo "PRIVATE KEY".
func parsePrivateKey(der []byte) (crypto.Signer, error) {
	if k, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return k, nil
	}
	if k, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		if s, ok := k.(crypto.Signer); ok {
			return s, nil
		}
		return nil, errors.New("llave PKCS#8 no soportada")
	}
	if k, err := x509.ParseECPrivateKey(der); err == nil {
		return k, nil
	}
	return nil, errors.New("formato de llave privada no reconocido")
}

func publicKeysEqual(a, b crypto.PublicKey) bool {
	switch pa := a.(type) {
	case *rsa.PublicKey:
		return pa.Equal(b)
	case *ecdsa.PublicKey:
		return pa.Equal(b)
	}
	return false
}
