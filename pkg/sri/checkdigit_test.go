package sri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ejemplo publicado en la Ficha Técnica: clave de 48 dígitos cuyo verificador es 3.
// ──────────────────────────────────────────────────────────────────────────────

const fichaTecnicaBase = "211020110117921467390011002001000000001123456781"

func TestComputeCheckDigit_EjemploFichaTecnica(t *testing.T) {
	digit, err := sri.ComputeCheckDigit(fichaTecnicaBase)
	require.NoError(t, err)
	assert.Equal(t, 3, digit)
}

func TestComputeCheckDigit_CasosBorde(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want int
	}{
		{"resultado 10 se convierte en 1", "6", 1},
		{"resultado 11 se convierte en 0", "14", 0},
		{"solo ceros", "000000000000000000000000000000000000000000000000", 0},
		{"un dígito", "1", 9},
		{"varios dígitos", "123", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sri.ComputeCheckDigit(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCheckDigit_RangoYDeterminismo(t *testing.T) {
	keys := []string{"0", "9", "99999999", "1234567890", fichaTecnicaBase, "150320240101000675000011001001000000005000000011"}
	for _, k := range keys {
		first, err := sri.ComputeCheckDigit(k)
		require.NoError(t, err)
		second, err := sri.ComputeCheckDigit(k)
		require.NoError(t, err)
		assert.Equal(t, first, second, "mismo resultado para %s", k)
		assert.GreaterOrEqual(t, first, 0)
		assert.LessOrEqual(t, first, 9)
	}
}

func TestComputeCheckDigit_EntradaInvalida(t *testing.T) {
	for _, k := range []string{"", "12a4", " 123", "12-3"} {
		_, err := sri.ComputeCheckDigit(k)
		assert.ErrorIs(t, err, sri.ErrInvalidKey, "entrada %q", k)
	}
}
