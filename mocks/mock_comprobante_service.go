package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
)

// MockComprobanteService is a mock implementation of http.ComprobanteService.
type MockComprobanteService struct {
	mock.Mock
}

func (m *MockComprobanteService) Emit(ctx context.Context, doc entity.Document) (*emission.EmitResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*emission.EmitResult), args.Error(1)
}

func (m *MockComprobanteService) Get(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comprobante), args.Error(1)
}

func (m *MockComprobanteService) Authorize(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comprobante), args.Error(1)
}

// MockRIDEDownloader is a mock implementation of http.RIDEDownloader.
type MockRIDEDownloader struct {
	mock.Mock
}

func (m *MockRIDEDownloader) DownloadRIDE(ctx context.Context, accessKey string) ([]byte, string, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
