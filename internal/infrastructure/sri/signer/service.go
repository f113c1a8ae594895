// Servicio de firma digital XAdES-BES para comprobantes electrónicos del SRI.
// Agrega <ds:Signature> como último hijo del nodo raíz del comprobante.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math/big"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// XAdESSigner firma comprobantes con XAdES-BES (C14N inclusivo, RSA-SHA1).
// La construcción de xades:SigningCertificate se delega al CertificateEmbedder inyectado.
type XAdESSigner struct {
	embedder sri.CertificateEmbedder
	now      func() time.Time
}

// NewXAdESSigner crea el firmador. Si embedder es nil se usa IssuerSerialEmbedder.
func NewXAdESSigner(embedder sri.CertificateEmbedder) *XAdESSigner {
	if embedder == nil {
		embedder = IssuerSerialEmbedder{}
	}
	return &XAdESSigner{embedder: embedder, now: time.Now}
}

// signatureIDs identificadores de los nodos de una firma; comparten sufijo aleatorio.
type signatureIDs struct {
	signature      string
	signedInfo     string
	signedProps    string
	signedPropsRef string
	certificate    string
	reference      string
	object         string
	signatureValue string
}

func newSignatureIDs() (signatureIDs, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return signatureIDs{}, err
	}
	suffix := fmt.Sprintf("%06d", n.Int64())
	sig := "Signature" + suffix
	return signatureIDs{
		signature:      sig,
		signedInfo:     "Signature-SignedInfo" + suffix,
		signedProps:    sig + "-SignedProperties" + suffix,
		signedPropsRef: "SignedPropertiesID" + suffix,
		certificate:    "Certificate" + suffix,
		reference:      "Reference-ID-" + suffix,
		object:         sig + "-Object" + suffix,
		signatureValue: "SignatureValue" + suffix,
	}, nil
}

// Sign implementa sri.Signer.
// Fase 1: digest del comprobante, de KeyInfo y de SignedProperties; firma de SignedInfo.
// Fase 2 (dentro de SignedProperties): SigningCertificate vía el embedder.
func (s *XAdESSigner) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("%w: XML vacío", sri.ErrSigning)
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: el certificado debe incluir llave privada RSA", sri.ErrCertificateLoad)
	}
	chain, err := parseChain(cert)
	if err != nil {
		return nil, err
	}
	leaf := chain[0]

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("%w: parsear XML: %v", sri.ErrSigning, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sin raíz", sri.ErrSigning)
	}
	if id := root.SelectAttrValue("id", ""); id != ComprobanteElementID {
		return nil, fmt.Errorf("%w: el nodo raíz debe tener id=%q, tiene %q", sri.ErrSigning, ComprobanteElementID, id)
	}

	ids, err := newSignatureIDs()
	if err != nil {
		return nil, fmt.Errorf("%w: generar identificadores: %v", sri.ErrSigning, err)
	}

	// 1) Digest del comprobante (transformación enveloped: la firma aún no existe).
	comprobanteDigest, err := digestElement(root, false)
	if err != nil {
		return nil, err
	}

	// 2) KeyInfo y SignedProperties.
	keyInfo := buildKeyInfo(ids, leaf, priv)
	keyInfoDigest, err := digestElement(keyInfo, true)
	if err != nil {
		return nil, err
	}
	signedProps, err := s.buildSignedProperties(ids, chain)
	if err != nil {
		return nil, err
	}
	signedPropsDigest, err := digestElement(signedProps, true)
	if err != nil {
		return nil, err
	}

	// 3) SignedInfo firmado con RSA-SHA1.
	signedInfo := buildSignedInfo(ids, signedPropsDigest, keyInfoDigest, comprobanteDigest)
	canonicalSignedInfo, err := canonicalizeElement(signedInfo, true)
	if err != nil {
		return nil, err
	}
	hash := sha1.Sum(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA1, hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: firmar SignedInfo: %v", sri.ErrSigning, err)
	}

	// 4) Ensamblar ds:Signature y agregarlo al final del comprobante.
	signature := etree.NewElement(prefixDS + ":Signature")
	signature.CreateAttr("xmlns:"+prefixDS, NamespaceDS)
	signature.CreateAttr("xmlns:"+prefixXAdES, NamespaceXAdES)
	signature.CreateAttr("Id", ids.signature)
	signature.AddChild(signedInfo)
	sigValue := signature.CreateElement(prefixDS + ":SignatureValue")
	sigValue.CreateAttr("Id", ids.signatureValue)
	sigValue.SetText(base64.StdEncoding.EncodeToString(signatureValue))
	signature.AddChild(keyInfo)
	object := signature.CreateElement(prefixDS + ":Object")
	object.CreateAttr("Id", ids.object)
	qualifying := object.CreateElement(prefixXAdES + ":QualifyingProperties")
	qualifying.CreateAttr("Target", "#"+ids.signature)
	qualifying.AddChild(signedProps)

	root.AddChild(signature)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serializar XML firmado: %v", sri.ErrSigning, err)
	}
	return out, nil
}

func parseChain(cert tls.Certificate) ([]*x509.Certificate, error) {
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("%w: el certificado no contiene la cadena X.509", sri.ErrCertificateLoad)
	}
	chain := make([]*x509.Certificate, 0, len(cert.Certificate))
	for i, der := range cert.Certificate {
		if i == 0 && cert.Leaf != nil {
			chain = append(chain, cert.Leaf)
			continue
		}
		c, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("%w: parsear certificado %d: %v", sri.ErrCertificateLoad, i, err)
		}
		chain = append(chain, c)
	}
	return chain, nil
}

func buildKeyInfo(ids signatureIDs, leaf *x509.Certificate, priv *rsa.PrivateKey) *etree.Element {
	keyInfo := etree.NewElement(prefixDS + ":KeyInfo")
	keyInfo.CreateAttr("Id", ids.certificate)
	x509Data := keyInfo.CreateElement(prefixDS + ":X509Data")
	x509Data.CreateElement(prefixDS + ":X509Certificate").SetText(base64.StdEncoding.EncodeToString(leaf.Raw))
	rsaKey := keyInfo.CreateElement(prefixDS + ":KeyValue").CreateElement(prefixDS + ":RSAKeyValue")
	rsaKey.CreateElement(prefixDS + ":Modulus").SetText(base64.StdEncoding.EncodeToString(priv.N.Bytes()))
	rsaKey.CreateElement(prefixDS + ":Exponent").SetText(base64.StdEncoding.EncodeToString(big.NewInt(int64(priv.E)).Bytes()))
	return keyInfo
}

func (s *XAdESSigner) buildSignedProperties(ids signatureIDs, chain []*x509.Certificate) (*etree.Element, error) {
	props := etree.NewElement(prefixXAdES + ":SignedProperties")
	props.CreateAttr("Id", ids.signedProps)

	sigProps := props.CreateElement(prefixXAdES + ":SignedSignatureProperties")
	sigProps.CreateElement(prefixXAdES + ":SigningTime").SetText(s.now().Format(time.RFC3339))
	signingCert := sigProps.CreateElement(prefixXAdES + ":SigningCertificate")
	if err := s.embedder.EmbedSigningCertificate(signingCert, chain); err != nil {
		return nil, fmt.Errorf("%w: SigningCertificate: %w", sri.ErrSigning, err)
	}

	format := props.CreateElement(prefixXAdES + ":SignedDataObjectProperties").
		CreateElement(prefixXAdES + ":DataObjectFormat")
	format.CreateAttr("ObjectReference", "#"+ids.reference)
	format.CreateElement(prefixXAdES + ":Description").SetText(DataObjectDescription)
	format.CreateElement(prefixXAdES + ":MimeType").SetText(DataObjectMimeType)
	return props, nil
}

func buildSignedInfo(ids signatureIDs, signedPropsDigest, keyInfoDigest, comprobanteDigest string) *etree.Element {
	signedInfo := etree.NewElement(prefixDS + ":SignedInfo")
	signedInfo.CreateAttr("Id", ids.signedInfo)
	signedInfo.CreateElement(prefixDS+":CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	signedInfo.CreateElement(prefixDS+":SignatureMethod").CreateAttr("Algorithm", AlgRSASHA1)

	ref := addReference(signedInfo, "#"+ids.signedProps, signedPropsDigest)
	ref.CreateAttr("Id", ids.signedPropsRef)
	ref.CreateAttr("Type", TypeSignedProps)

	addReference(signedInfo, "#"+ids.certificate, keyInfoDigest)

	ref = addReference(signedInfo, "#"+ComprobanteElementID, comprobanteDigest, TransformEnveloped)
	ref.CreateAttr("Id", ids.reference)
	return signedInfo
}

func addReference(signedInfo *etree.Element, uri, digest string, transforms ...string) *etree.Element {
	ref := signedInfo.CreateElement(prefixDS + ":Reference")
	ref.CreateAttr("URI", uri)
	if len(transforms) > 0 {
		t := ref.CreateElement(prefixDS + ":Transforms")
		for _, alg := range transforms {
			t.CreateElement(prefixDS+":Transform").CreateAttr("Algorithm", alg)
		}
	}
	ref.CreateElement(prefixDS+":DigestMethod").CreateAttr("Algorithm", AlgSHA1)
	ref.CreateElement(prefixDS + ":DigestValue").SetText(digest)
	return ref
}

// digestElement SHA1 (Base64) de la forma canónica del elemento.
func digestElement(el *etree.Element, inSignature bool) (string, error) {
	canonical, err := canonicalizeElement(el, inSignature)
	if err != nil {
		return "", err
	}
	h := sha1.Sum(canonical)
	return base64.StdEncoding.EncodeToString(h[:]), nil
}

// canonicalizeElement C14N inclusivo del elemento. Los nodos que viven dentro de ds:Signature
// heredan las declaraciones xmlns:ds y xmlns:xades, que el C14N inclusivo debe emitir.
func canonicalizeElement(el *etree.Element, inSignature bool) ([]byte, error) {
	c := el.Copy()
	if inSignature {
		c.CreateAttr("xmlns:"+prefixDS, NamespaceDS)
		c.CreateAttr("xmlns:"+prefixXAdES, NamespaceXAdES)
	}
	doc := etree.NewDocument()
	doc.SetRoot(c)
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serializar %s: %v", sri.ErrSigning, el.Tag, err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: canonicalizar %s: %v", sri.ErrSigning, el.Tag, err)
	}
	return canonical, nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

var _ sri.Signer = (*XAdESSigner)(nil)
