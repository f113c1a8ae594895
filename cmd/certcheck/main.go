// certcheck diagnostica el certificado de firma electrónica (.p12 o PEM):
// lo carga con la misma rutina que la emisión, muestra la cadena y prueba una firma XAdES-BES.
//
// Uso: go run ./cmd/certcheck [-cert ruta.p12] [-password clave] [-pem cadena.pem]
// Sin -cert usa SRI_CERT_PATH / SRI_CERT_PASSWORD.
package main

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/sri-facturacion/internal/infrastructure/sri/signer"
	"github.com/jhoicas/sri-facturacion/pkg/config"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

const probeXML = `<?xml version="1.0" encoding="UTF-8"?><factura id="comprobante" version="1.1.0"><infoTributaria><ambiente>1</ambiente></infoTributaria></factura>`

func main() {
	certPath := flag.String("cert", "", "certificado .p12/.pfx o .pem")
	certPass := flag.String("password", "", "clave del .p12")
	pemOut := flag.String("pem", "", "escribir la cadena en PEM en esta ruta")
	flag.Parse()

	if *certPath == "" {
		cfg, err := config.Load()
		if err != nil {
			fail("cargar configuración", err)
		}
		*certPath, *certPass = cfg.SRI.CertPath, cfg.SRI.CertPassword
	}
	if *certPath == "" {
		fail("sin certificado", errors.New("indique -cert o SRI_CERT_PATH"))
	}

	fmt.Println("DIAGNÓSTICO DE CERTIFICADO SRI")
	fmt.Println("------------------------------")
	fmt.Printf("Archivo: %s\n", *certPath)

	cert, err := signer.LoadCertificate(*certPath, *certPass)
	if err != nil {
		if errors.Is(err, sri.ErrCertificateLoad) {
			fmt.Println("\nNo se pudo cargar: revise la ruta, la clave o el formato del archivo.")
		}
		fail("cargar certificado", err)
	}

	fmt.Printf("\nCadena (%d certificados):\n", len(cert.Certificate))
	for i, der := range cert.Certificate {
		c, err := x509.ParseCertificate(der)
		if err != nil {
			fail(fmt.Sprintf("parsear certificado %d", i), err)
		}
		printCertificate(i, c)
	}

	if *pemOut != "" {
		if err := os.WriteFile(*pemOut, signer.ChainPEM(cert), 0o600); err != nil {
			fail("escribir PEM", err)
		}
		fmt.Printf("\nCadena PEM escrita en %s\n", *pemOut)
	}

	if err := probeSignature(cert); err != nil {
		fail("firma de prueba", err)
	}
	fmt.Println("\nOK: el certificado carga y firma un comprobante XAdES-BES.")
}

func printCertificate(i int, c *x509.Certificate) {
	digest, issuer, serial := signer.CertDigestAndIssuerSerial(c)
	role := "intermedio/raíz"
	if i == 0 {
		role = "firmante"
	}
	fmt.Printf("  [%d] %s\n", i, role)
	fmt.Printf("      Sujeto:   %s\n", c.Subject.String())
	fmt.Printf("      Emisor:   %s\n", issuer)
	fmt.Printf("      Serial:   %s\n", serial)
	fmt.Printf("      SHA1:     %s\n", digest)
	fmt.Printf("      Vigencia: %s a %s", c.NotBefore.Format(time.DateOnly), c.NotAfter.Format(time.DateOnly))
	now := time.Now()
	switch {
	case now.After(c.NotAfter):
		fmt.Print("  (EXPIRADO)")
	case now.Before(c.NotBefore):
		fmt.Print("  (AÚN NO VIGENTE)")
	}
	fmt.Println()
	if i == 0 && c.KeyUsage&x509.KeyUsageDigitalSignature == 0 {
		fmt.Println("      Advertencia: el certificado no declara uso de firma digital")
	}
}

func probeSignature(cert tls.Certificate) error {
	signed, err := signer.NewXAdESSigner(nil).Sign([]byte(probeXML), cert)
	if err != nil {
		return err
	}
	if len(signed) <= len(probeXML) {
		return errors.New("la firma no se agregó al comprobante")
	}
	return nil
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "ERROR (%s): %v\n", step, err)
	os.Exit(1)
}
