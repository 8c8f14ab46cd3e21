//go:build tinygo

package main

import "machine"

const (
	// Serial configuration
	// Baud rate calculation: one 12-byte record per fast pass, ~2000
	// passes/sec worst case = 24,000 bytes/sec. UART 8N1: 10 bits/byte =
	// 240,000 baud minimum at full rate; at the 115200 default the emitter
	// paces itself to what the link drains.
	UART_BAUD_RATE = 115200
)

// Analog input pins, indexed by the engine's raw channel numbers.
var adcPins = [...]machine.Pin{
	machine.A0,
	machine.A1,
	machine.A2,
	machine.A3,
}

// Channel lists: A0/A1 are sampled every conversion, A2/A3 get one
// conversion per full fast pass.
var (
	fastChannels = []uint8{0, 1}
	slowChannels = []uint8{2, 3}
)
