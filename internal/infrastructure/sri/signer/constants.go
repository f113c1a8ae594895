// Constantes para firma XAdES-BES de comprobantes electrónicos SRI.

package signer

// Namespaces y algoritmos XMLDSig / XAdES (perfil SRI: C14N inclusivo, RSA-SHA1, SHA1).
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXAdES     = "http://uri.etsi.org/01903/v1.3.2#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA1         = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	TypeSignedProps    = "http://uri.etsi.org/01903#SignedProperties"
)

// Prefijos usados en el nodo de firma.
const (
	prefixDS    = "ds"
	prefixXAdES = "xades"
)

// ComprobanteElementID id del nodo raíz que firma la Reference (URI="#comprobante").
const ComprobanteElementID = "comprobante"

// DataObjectFormat exigido por el SRI para el comprobante firmado.
const (
	DataObjectDescription = "contenido comprobante"
	DataObjectMimeType    = "text/xml"
)
