package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSequenceRepo is a mock implementation of repository.SequenceRepository.
type MockSequenceRepo struct {
	mock.Mock
}

func (m *MockSequenceRepo) Next(ctx context.Context, ruc, establishment, emissionPoint, documentType string) (int64, error) {
	args := m.Called(ctx, ruc, establishment, emissionPoint, documentType)
	return args.Get(0).(int64), args.Error(1)
}
