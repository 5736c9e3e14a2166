package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

var _ model.SecurityLayer = (*SecurityLayer)(nil)

func (m *SecurityLayer) Listen(network, addr string) (net.Listener, error) {
	args := m.Called(network, addr)
	lis, _ := args.Get(0).(net.Listener)
	return lis, args.Error(1)
}
