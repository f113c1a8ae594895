package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/sri-facturacion/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sri-facturacion/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testClientID   = "00000000-0000-0000-0000-000000000001"
	testEmitterRUC = "0100067500001"
	testIssuer     = "sri-facturacion-test"
	testExpMin     = 60
)

// buildMeApp aplicación mínima con AuthMiddleware y un handler que devuelve los locals.
func buildMeApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"client_id":  apphttp.GetClientID(c),
			"ruc_emisor": apphttp.GetEmitterRUC(c),
		})
	})
	return app
}

// bearer genera un JWT para el RUC indicado (vacío = sin restricción).
func bearer(t *testing.T, ruc string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testClientID, ruc, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := getMe(t, buildMeApp(), bearer(t, testEmitterRUC))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testClientID, body["client_id"])
	assert.Equal(t, testEmitterRUC, body["ruc_emisor"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := getMe(t, buildMeApp(), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := getMe(t, buildMeApp(), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := getMe(t, buildMeApp(), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testClientID, "", testIssuer, -1)
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token expirado debe retornar 401")
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testClientID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CanEmitFor
// ──────────────────────────────────────────────────────────────────────────────

func TestCanEmitFor(t *testing.T) {
	app := fiber.New()
	app.Get("/can/:ruc", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": apphttp.CanEmitFor(c, c.Params("ruc"))})
	})

	cases := []struct {
		name     string
		tokenRUC string
		ruc      string
		want     bool
	}{
		{"token sin restricción", "", "1790011674001", true},
		{"mismo RUC", testEmitterRUC, testEmitterRUC, true},
		{"RUC distinto", testEmitterRUC, "1790011674001", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/can/"+tc.ruc, nil)
			req.Header.Set("Authorization", bearer(t, tc.tokenRUC))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]bool
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.want, body["ok"])
		})
	}
}
