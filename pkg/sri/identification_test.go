package sri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

func TestValidateCedula(t *testing.T) {
	assert.NoError(t, sri.ValidateCedula("1710034065"))
	assert.ErrorIs(t, sri.ValidateCedula("1710034064"), sri.ErrInvalidIdentification)
	assert.ErrorIs(t, sri.ValidateCedula("9910034065"), sri.ErrInvalidIdentification, "provincia inexistente")
	assert.ErrorIs(t, sri.ValidateCedula("171003406"), sri.ErrInvalidIdentification)
}

func TestValidateRUC(t *testing.T) {
	tests := []struct {
		name  string
		ruc   string
		valid bool
	}{
		{"persona natural", "1710034065001", true},
		{"sociedad privada", "1792146739001", true},
		{"entidad pública", "1760001550001", true},
		{"sociedad privada con verificador errado", "1792146738001", false},
		{"establecimiento 000", "1710034065000", false},
		{"tercer dígito 7", "1770001550001", false},
		{"longitud", "179214673900", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sri.ValidateRUC(tt.ruc)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, sri.ErrInvalidIdentification)
		})
	}
}

func TestValidateBuyerIdentification(t *testing.T) {
	assert.NoError(t, sri.ValidateBuyerIdentification(sri.IdentificationRUC, "1792146739001"))
	assert.NoError(t, sri.ValidateBuyerIdentification(sri.IdentificationFinalConsumer, sri.FinalConsumerID))
	assert.NoError(t, sri.ValidateBuyerIdentification(sri.IdentificationPassport, "A1234567"))
	assert.Error(t, sri.ValidateBuyerIdentification(sri.IdentificationFinalConsumer, "1792146739001"))
	assert.Error(t, sri.ValidateBuyerIdentification("99", "1792146739001"))
}
