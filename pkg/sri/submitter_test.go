package sri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

func TestReceptionResult_AlreadyRegistered(t *testing.T) {
	registered := &sri.ReceptionResult{
		Status:   sri.ReceptionReturned,
		Messages: []sri.Message{{Identifier: sri.MessageAccessKeyRegistered, Message: "CLAVE ACCESO REGISTRADA"}},
	}
	assert.True(t, registered.AlreadyRegistered())

	structure := &sri.ReceptionResult{
		Status:   sri.ReceptionReturned,
		Messages: []sri.Message{{Identifier: "35", Message: "ARCHIVO NO CUMPLE ESTRUCTURA XML"}},
	}
	assert.False(t, structure.AlreadyRegistered())

	accepted := &sri.ReceptionResult{Accepted: true, Status: sri.ReceptionReceived}
	assert.False(t, accepted.AlreadyRegistered())

	var none *sri.ReceptionResult
	assert.False(t, none.AlreadyRegistered())
}
