package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/sri-facturacion/internal/application/emission"
)

// MockRIDEGenerator is a mock implementation of emission.RIDEGenerator.
type MockRIDEGenerator struct {
	mock.Mock
}

func (m *MockRIDEGenerator) GenerateRIDE(ctx context.Context, data emission.RIDEData) ([]byte, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
