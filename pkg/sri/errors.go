package sri

import "errors"

// Errores de firma y envío. ErrInvalidKey vive junto al dígito verificador.
var (
	// ErrCertificateLoad el archivo .p12 no se pudo leer o la contraseña es incorrecta.
	ErrCertificateLoad = errors.New("sri: no se pudo cargar el certificado")
	// ErrSigning falló la canonicalización, el digest o la firma RSA.
	ErrSigning = errors.New("sri: error al firmar el comprobante")
	// ErrTransport error HTTP, SOAP Fault o respuesta ilegible de los web services.
	ErrTransport = errors.New("sri: error de comunicación con el web service")
)
