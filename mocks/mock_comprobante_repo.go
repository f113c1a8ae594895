package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
)

// MockComprobanteRepo is a mock implementation of repository.ComprobanteRepository.
type MockComprobanteRepo struct {
	mock.Mock
}

func (m *MockComprobanteRepo) Create(ctx context.Context, c *entity.Comprobante) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComprobanteRepo) GetByAccessKey(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comprobante), args.Error(1)
}

func (m *MockComprobanteRepo) Update(ctx context.Context, c *entity.Comprobante) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComprobanteRepo) ListPending(ctx context.Context, limit int) ([]*entity.Comprobante, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comprobante), args.Error(1)
}
