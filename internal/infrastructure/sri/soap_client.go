package sri

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ── Endpoints offline ─────────────────────────────────────────────────────────

const (
	receptionURLTest     = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	authorizationURLTest = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"
	receptionURLProd     = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	authorizationURLProd = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"

	soapNS          = "http://schemas.xmlsoap.org/soap/envelope/"
	nsRecepcion     = "http://ec.gob.sri.ws.recepcion"
	nsAutorizacion  = "http://ec.gob.sri.ws.autorizacion"
	maxResponseSize = 4 << 20
)

// Endpoints devuelve las URLs de recepción y autorización del ambiente (1 pruebas, 2 producción).
func Endpoints(environment string) (reception, authorization string, err error) {
	switch environment {
	case catalog.EnvironmentTest:
		return receptionURLTest, authorizationURLTest, nil
	case catalog.EnvironmentProduction:
		return receptionURLProd, authorizationURLProd, nil
	default:
		return "", "", fmt.Errorf("soap: ambiente desconocido %q (usar 1 o 2)", environment)
	}
}

// ── Implementación SOAP ────────────────────────────────────────────────────────

// SOAPClient implementa sri.Submitter sobre los web services offline del SRI.
// No reintenta: el llamador decide cuándo volver a consultar la autorización.
type SOAPClient struct {
	httpClient       *http.Client
	receptionURL     string
	authorizationURL string
}

// NewSOAPClient construye el cliente para el ambiente indicado.
func NewSOAPClient(environment string, timeout time.Duration) (*SOAPClient, error) {
	reception, authorization, err := Endpoints(environment)
	if err != nil {
		return nil, err
	}
	return NewSOAPClientWithEndpoints(reception, authorization, timeout), nil
}

// NewSOAPClientWithEndpoints construye el cliente con URLs explícitas (pruebas, proxies).
func NewSOAPClientWithEndpoints(receptionURL, authorizationURL string, timeout time.Duration) *SOAPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SOAPClient{
		httpClient:       &http.Client{Timeout: timeout},
		receptionURL:     receptionURL,
		authorizationURL: authorizationURL,
	}
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type validarComprobanteRequest struct {
	XMLName xml.Name `xml:"ec:validarComprobante"`
	XML     string   `xml:"xml"` // comprobante firmado en Base64
}

type autorizacionComprobanteRequest struct {
	XMLName   xml.Name `xml:"ec:autorizacionComprobante"`
	AccessKey string   `xml:"claveAccesoComprobante"`
}

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	Reception     *validarComprobanteResponse      `xml:"validarComprobanteResponse"`
	Authorization *autorizacionComprobanteResponse `xml:"autorizacionComprobanteResponse"`
	Fault         *soapFault                       `xml:"Fault"`
}

type validarComprobanteResponse struct {
	Result struct {
		Estado       string `xml:"estado"`
		Comprobantes []struct {
			ClaveAcceso string        `xml:"claveAcceso"`
			Mensajes    []soapMessage `xml:"mensajes>mensaje"`
		} `xml:"comprobantes>comprobante"`
	} `xml:"RespuestaRecepcionComprobante"`
}

type autorizacionComprobanteResponse struct {
	Result struct {
		ClaveAccesoConsultada string             `xml:"claveAccesoConsultada"`
		NumeroComprobantes    string             `xml:"numeroComprobantes"`
		Autorizaciones        []soapAutorizacion `xml:"autorizaciones>autorizacion"`
	} `xml:"RespuestaAutorizacionComprobante"`
}

type soapAutorizacion struct {
	Estado             string        `xml:"estado"`
	NumeroAutorizacion string        `xml:"numeroAutorizacion"`
	FechaAutorizacion  string        `xml:"fechaAutorizacion"`
	Ambiente           string        `xml:"ambiente"`
	Comprobante        string        `xml:"comprobante"`
	Mensajes           []soapMessage `xml:"mensajes>mensaje"`
}

type soapMessage struct {
	Identificador        string `xml:"identificador"`
	Mensaje              string `xml:"mensaje"`
	InformacionAdicional string `xml:"informacionAdicional"`
	Tipo                 string `xml:"tipo"`
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// SubmitForReception envía el comprobante firmado a validarComprobante.
// Accepted es true solo si el estado es RECIBIDA.
func (c *SOAPClient) SubmitForReception(ctx context.Context, signedXML []byte) (*catalog.ReceptionResult, error) {
	body := validarComprobanteRequest{XML: base64.StdEncoding.EncodeToString(signedXML)}
	raw, env, err := c.call(ctx, c.receptionURL, nsRecepcion, body)
	if err != nil {
		return nil, err
	}
	if env.Body.Reception == nil {
		return nil, fmt.Errorf("%w: respuesta de recepción inesperada: %s", catalog.ErrTransport, truncate(raw))
	}

	result := &catalog.ReceptionResult{
		Status: env.Body.Reception.Result.Estado,
		Raw:    raw,
	}
	result.Accepted = result.Status == catalog.ReceptionReceived
	for _, comp := range env.Body.Reception.Result.Comprobantes {
		result.Messages = append(result.Messages, toMessages(comp.Mensajes)...)
	}
	return result, nil
}

// PollAuthorization consulta autorizacionComprobante con la clave de acceso.
// Una lista de autorizaciones vacía (aún en proceso) devuelve Authorized=false sin error.
func (c *SOAPClient) PollAuthorization(ctx context.Context, accessKey string) (*catalog.AuthorizationResult, error) {
	body := autorizacionComprobanteRequest{AccessKey: accessKey}
	raw, env, err := c.call(ctx, c.authorizationURL, nsAutorizacion, body)
	if err != nil {
		return nil, err
	}
	if env.Body.Authorization == nil {
		return nil, fmt.Errorf("%w: respuesta de autorización inesperada: %s", catalog.ErrTransport, truncate(raw))
	}

	result := &catalog.AuthorizationResult{Raw: raw}
	auths := env.Body.Authorization.Result.Autorizaciones
	if len(auths) == 0 {
		return result, nil
	}
	first := auths[0]
	result.Status = first.Estado
	result.Authorized = first.Estado == catalog.AuthorizationApproved
	result.AuthorizationNumber = first.NumeroAutorizacion
	result.AuthorizationDate = parseAuthorizationDate(first.FechaAutorizacion)
	result.Environment = first.Ambiente
	result.AuthorizedXML = strings.TrimSpace(first.Comprobante)
	result.Messages = toMessages(first.Mensajes)
	return result, nil
}

// call arma el envelope, hace el POST y desempaqueta la respuesta.
// SOAP Fault, HTTP no 2xx y respuestas ilegibles son errores de transporte.
func (c *SOAPClient) call(ctx context.Context, url, ns string, body any) ([]byte, *soapResponseEnvelope, error) {
	payload, err := buildEnvelope(ns, body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: serializar envelope: %v", catalog.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: crear request: %v", catalog.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%w: timeout o cancelación: %w", catalog.ErrTransport, ctx.Err())
		}
		return nil, nil, fmt.Errorf("%w: llamada HTTP fallida: %v", catalog.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: leer respuesta: %v", catalog.ErrTransport, err)
	}

	var env soapResponseEnvelope
	parseErr := xml.Unmarshal(raw, &env)
	if parseErr == nil && env.Body.Fault != nil {
		return raw, nil, fmt.Errorf("%w: SOAP Fault [%s]: %s", catalog.ErrTransport, env.Body.Fault.FaultCode, env.Body.Fault.FaultString)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, nil, fmt.Errorf("%w: HTTP %d: %s", catalog.ErrTransport, resp.StatusCode, truncate(raw))
	}
	if parseErr != nil {
		return raw, nil, fmt.Errorf("%w: parsear respuesta SOAP: %v", catalog.ErrTransport, parseErr)
	}
	return raw, &env, nil
}

func buildEnvelope(ns string, body any) ([]byte, error) {
	inner, err := xml.Marshal(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`<soapenv:Envelope xmlns:soapenv="` + soapNS + `" xmlns:ec="` + ns + `">`)
	buf.WriteString(`<soapenv:Header/><soapenv:Body>`)
	buf.Write(inner)
	buf.WriteString(`</soapenv:Body></soapenv:Envelope>`)
	return buf.Bytes(), nil
}

func toMessages(in []soapMessage) []catalog.Message {
	out := make([]catalog.Message, 0, len(in))
	for _, m := range in {
		out = append(out, catalog.Message{
			Identifier:     m.Identificador,
			Message:        m.Mensaje,
			AdditionalInfo: m.InformacionAdicional,
			Type:           m.Tipo,
		})
	}
	return out
}

// parseAuthorizationDate el SRI devuelve ISO 8601 con zona; versiones antiguas usan dd/MM/yyyy HH:mm:ss.
func parseAuthorizationDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "02/01/2006 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "…"
	}
	return string(b)
}

var _ catalog.Submitter = (*SOAPClient)(nil)
