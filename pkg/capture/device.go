// Package capture provides host-side access to the binary record stream a
// sampling board emits over its serial link.
package capture

import "github.com/adclabs/fastadc/pkg/framing"

// Device defines the interface for capture devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Records() <-chan framing.Record
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
