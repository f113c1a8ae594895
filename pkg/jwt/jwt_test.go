package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("secreto", "erp-quito", "0100067500001", "sri-facturacion", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "erp-quito", claims.ClientID)
	assert.Equal(t, "0100067500001", claims.EmitterRUC)
	assert.Equal(t, "sri-facturacion", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", "erp", "", "iss", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", "erp", "", "iss", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "erp", "", "iss", 5)
	assert.Error(t, err)
	_, err = Parse("", "x.y.z")
	assert.Error(t, err)
}
