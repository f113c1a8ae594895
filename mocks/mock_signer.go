package mocks

import (
	"crypto/tls"

	"github.com/stretchr/testify/mock"
)

// MockSigner is a mock implementation of sri.Signer.
type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	args := m.Called(xmlBytes, cert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
