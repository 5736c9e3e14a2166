package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts on, plain or TLS.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a long-running transport. Start blocks until Stop is called.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
