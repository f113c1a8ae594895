package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// MockSubmitter is a mock implementation of sri.Submitter.
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitForReception(ctx context.Context, signedXML []byte) (*sri.ReceptionResult, error) {
	args := m.Called(ctx, signedXML)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sri.ReceptionResult), args.Error(1)
}

func (m *MockSubmitter) PollAuthorization(ctx context.Context, accessKey string) (*sri.AuthorizationResult, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sri.AuthorizationResult), args.Error(1)
}
