package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testPKI struct {
	caCert   *x509.Certificate
	leafCert *x509.Certificate
	leafKey  *rsa.PrivateKey
}

// newTestPKI genera una CA y un certificado de firma emitido por ella, en memoria.
func newTestPKI(t *testing.T) *testPKI {
	t.Helper()
	caKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	caTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1001),
		Subject: pkix.Name{
			CommonName:         "AUTORIDAD DE CERTIFICACION PRUEBAS",
			OrganizationalUnit: []string{"ENTIDAD DE CERTIFICACION DE INFORMACION"},
			Organization:       []string{"SEGURIDAD PRUEBAS S.A."},
			Country:            []string{"EC"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	leafKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	leafTmpl := &x509.Certificate{
		SerialNumber: new(big.Int).SetUint64(1234567890123456789),
		Subject:      pkix.Name{CommonName: "DISTRIBUIDORA ANDINA S.A."},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment,
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, caCert, &leafKey.PublicKey, caKey)
	require.NoError(t, err)
	leafCert, err := x509.ParseCertificate(leafDER)
	require.NoError(t, err)

	return &testPKI{caCert: caCert, leafCert: leafCert, leafKey: leafKey}
}

func (p *testPKI) tlsCertificate() tls.Certificate {
	return tls.Certificate{
		Certificate: [][]byte{p.leafCert.Raw, p.caCert.Raw},
		PrivateKey:  p.leafKey,
		Leaf:        p.leafCert,
	}
}
