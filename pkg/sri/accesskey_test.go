package sri_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

func validParams() sri.AccessKeyParams {
	return sri.AccessKeyParams{
		EmissionDate:  time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC),
		DocumentType:  sri.DocumentTypeInvoice,
		RUC:           "0100067500001",
		Environment:   sri.EnvironmentTest,
		Establishment: "001",
		EmissionPoint: "001",
		Sequential:    "000000005",
		NumericCode:   "1",
		EmissionType:  sri.EmissionTypeNormal,
	}
}

func TestBuildAccessKey_Composicion(t *testing.T) {
	key, err := sri.BuildAccessKey(validParams())
	require.NoError(t, err)

	require.Len(t, key, sri.AccessKeyLength)
	assert.Equal(t, "1503202401010006750000110010010000000050000000112", key)
	assert.Equal(t, "15032024", key[0:8], "fecha ddMMyyyy")
	assert.Equal(t, "01", key[8:10])
	assert.Equal(t, "0100067500001", key[10:23])
	assert.Equal(t, "00000001", key[39:47], "código numérico completado con ceros")

	digit, err := sri.ComputeCheckDigit(key[:48])
	require.NoError(t, err)
	assert.Equal(t, byte('0'+digit), key[48])
}

func TestBuildAccessKey_CamposInvalidos(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *sri.AccessKeyParams)
	}{
		{"RUC corto", func(p *sri.AccessKeyParams) { p.RUC = "010006750001" }},
		{"RUC con letras", func(p *sri.AccessKeyParams) { p.RUC = "01000675000A1" }},
		{"establecimiento de 2 dígitos", func(p *sri.AccessKeyParams) { p.Establishment = "01" }},
		{"secuencial largo", func(p *sri.AccessKeyParams) { p.Sequential = "0000000005" }},
		{"código numérico de 9 dígitos", func(p *sri.AccessKeyParams) { p.NumericCode = "123456789" }},
		{"ambiente vacío", func(p *sri.AccessKeyParams) { p.Environment = "" }},
		{"sin fecha", func(p *sri.AccessKeyParams) { p.EmissionDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := sri.BuildAccessKey(p)
			assert.ErrorIs(t, err, sri.ErrInvalidKey)
		})
	}
}

func TestValidateAccessKey(t *testing.T) {
	key, err := sri.BuildAccessKey(validParams())
	require.NoError(t, err)
	assert.NoError(t, sri.ValidateAccessKey(key))
	assert.NoError(t, sri.ValidateAccessKey(fichaTecnicaBase+"3"))

	wrongDigit := key[:48] + string('0'+(key[48]-'0'+1)%10)
	assert.ErrorIs(t, sri.ValidateAccessKey(wrongDigit), sri.ErrInvalidKey)
	assert.ErrorIs(t, sri.ValidateAccessKey(key[:48]), sri.ErrInvalidKey)
	assert.ErrorIs(t, sri.ValidateAccessKey(strings.Repeat("x", 49)), sri.ErrInvalidKey)
}

func TestParseAccessKey_RecuperaCampos(t *testing.T) {
	p := validParams()
	key, err := sri.BuildAccessKey(p)
	require.NoError(t, err)

	parts, err := sri.ParseAccessKey(key)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", parts.EmissionDate.Format("2006-01-02"))
	assert.Equal(t, p.RUC, parts.RUC)
	assert.Equal(t, p.Sequential, parts.Sequential)
	assert.Equal(t, "00000001", parts.NumericCode)
	assert.Equal(t, p.EmissionType, parts.EmissionType)
	assert.Equal(t, 2, parts.CheckDigit)
}
