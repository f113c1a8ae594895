package sri_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrasri "github.com/jhoicas/sri-facturacion/internal/infrastructure/sri"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

const testAccessKey = "1503202401010006750000110010010000000050000000112"

const receptionOK = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><ns2:validarComprobanteResponse xmlns:ns2="http://ec.gob.sri.ws.recepcion"><RespuestaRecepcionComprobante><estado>RECIBIDA</estado><comprobantes/></RespuestaRecepcionComprobante></ns2:validarComprobanteResponse></soap:Body></soap:Envelope>`

const receptionReturned = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><ns2:validarComprobanteResponse xmlns:ns2="http://ec.gob.sri.ws.recepcion"><RespuestaRecepcionComprobante><estado>DEVUELTA</estado><comprobantes><comprobante><claveAcceso>` + testAccessKey + `</claveAcceso><mensajes><mensaje><identificador>43</identificador><mensaje>CLAVE ACCESO REGISTRADA</mensaje><tipo>ERROR</tipo></mensaje></mensajes></comprobante></comprobantes></RespuestaRecepcionComprobante></ns2:validarComprobanteResponse></soap:Body></soap:Envelope>`

const authorizationOK = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><ns2:autorizacionComprobanteResponse xmlns:ns2="http://ec.gob.sri.ws.autorizacion"><RespuestaAutorizacionComprobante><claveAccesoConsultada>` + testAccessKey + `</claveAccesoConsultada><numeroComprobantes>1</numeroComprobantes><autorizaciones><autorizacion><estado>AUTORIZADO</estado><numeroAutorizacion>` + testAccessKey + `</numeroAutorizacion><fechaAutorizacion>2024-03-15T10:31:08-05:00</fechaAutorizacion><ambiente>PRUEBAS</ambiente><comprobante><![CDATA[<factura id="comprobante"></factura>]]></comprobante><mensajes/></autorizacion></autorizaciones></RespuestaAutorizacionComprobante></ns2:autorizacionComprobanteResponse></soap:Body></soap:Envelope>`

const authorizationEmpty = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><ns2:autorizacionComprobanteResponse xmlns:ns2="http://ec.gob.sri.ws.autorizacion"><RespuestaAutorizacionComprobante><claveAccesoConsultada>` + testAccessKey + `</claveAccesoConsultada><numeroComprobantes>0</numeroComprobantes><autorizaciones/></RespuestaAutorizacionComprobante></ns2:autorizacionComprobanteResponse></soap:Body></soap:Envelope>`

const soapFault = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><soap:Fault><faultcode>soap:Server</faultcode><faultstring>Error interno</faultstring></soap:Fault></soap:Body></soap:Envelope>`

// sriStub simula un web service: registra el último cuerpo recibido y responde con el XML indicado.
func sriStub(t *testing.T, status int, response string, lastBody *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")
		b, _ := io.ReadAll(r.Body)
		if lastBody != nil {
			*lastBody = string(b)
		}
		w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitForReception_Recibida(t *testing.T) {
	var body string
	srv := sriStub(t, http.StatusOK, receptionOK, &body)
	client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

	signed := []byte(`<factura id="comprobante"><infoTributaria/></factura>`)
	res, err := client.SubmitForReception(context.Background(), signed)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, sri.ReceptionReceived, res.Status)
	assert.Empty(t, res.Messages)
	assert.NotEmpty(t, res.Raw)

	// El request lleva el comprobante en Base64 dentro de validarComprobante.
	req := etree.NewDocument()
	require.NoError(t, req.ReadFromString(body))
	xmlEl := req.FindElement("//ec:validarComprobante/xml")
	require.NotNil(t, xmlEl)
	decoded, err := base64.StdEncoding.DecodeString(xmlEl.Text())
	require.NoError(t, err)
	assert.Equal(t, signed, decoded)
}

func TestSubmitForReception_DevueltaConMensajes(t *testing.T) {
	srv := sriStub(t, http.StatusOK, receptionReturned, nil)
	client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

	res, err := client.SubmitForReception(context.Background(), []byte("<factura/>"))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, sri.ReceptionReturned, res.Status)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "43", res.Messages[0].Identifier)
	assert.Equal(t, "CLAVE ACCESO REGISTRADA", res.Messages[0].Message)
	assert.Equal(t, "ERROR", res.Messages[0].Type)
}

func TestPollAuthorization_Autorizado(t *testing.T) {
	var body string
	srv := sriStub(t, http.StatusOK, authorizationOK, &body)
	client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

	res, err := client.PollAuthorization(context.Background(), testAccessKey)
	require.NoError(t, err)
	assert.True(t, res.Authorized)
	assert.Equal(t, sri.AuthorizationApproved, res.Status)
	assert.Equal(t, testAccessKey, res.AuthorizationNumber)
	assert.Equal(t, "PRUEBAS", res.Environment)
	assert.Equal(t, `<factura id="comprobante"></factura>`, res.AuthorizedXML)
	assert.Equal(t, 2024, res.AuthorizationDate.Year())
	assert.Equal(t, 31, res.AuthorizationDate.Minute())
	assert.Contains(t, body, "<claveAccesoComprobante>"+testAccessKey+"</claveAccesoComprobante>")
	assert.Contains(t, body, `xmlns:ec="http://ec.gob.sri.ws.autorizacion"`)
}

func TestPollAuthorization_ListaVaciaNoEsError(t *testing.T) {
	srv := sriStub(t, http.StatusOK, authorizationEmpty, nil)
	client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

	res, err := client.PollAuthorization(context.Background(), testAccessKey)
	require.NoError(t, err)
	assert.False(t, res.Authorized)
	assert.Empty(t, res.Status)
	assert.Empty(t, res.Messages)
}

func TestSOAPClient_ErroresDeTransporte(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
	}{
		{"SOAP Fault", http.StatusInternalServerError, soapFault},
		{"HTTP 503", http.StatusServiceUnavailable, "Service Unavailable"},
		{"respuesta ilegible", http.StatusOK, "<html>"},
		{"respuesta sin operación", http.StatusOK, `<Envelope><Body/></Envelope>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := sriStub(t, tt.status, tt.response, nil)
			client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

			_, err := client.PollAuthorization(context.Background(), testAccessKey)
			assert.ErrorIs(t, err, sri.ErrTransport)
		})
	}
}

func TestSOAPClient_ContextoCancelado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	client := infrasri.NewSOAPClientWithEndpoints(srv.URL, srv.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.SubmitForReception(ctx, []byte("<factura/>"))
	assert.ErrorIs(t, err, sri.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEndpoints(t *testing.T) {
	rec, auth, err := infrasri.Endpoints(sri.EnvironmentTest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec, "https://celcer.sri.gob.ec/"))
	assert.True(t, strings.HasSuffix(auth, "AutorizacionComprobantesOffline"))

	rec, _, err = infrasri.Endpoints(sri.EnvironmentProduction)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec, "https://cel.sri.gob.ec/"))

	_, err = infrasri.NewSOAPClient("3", time.Second)
	assert.Error(t, err)
}
