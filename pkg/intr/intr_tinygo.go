//go:build tinygo

package intr

import "runtime/interrupt"

func disable() State {
	return State(interrupt.Disable())
}

func restore(s State) {
	interrupt.Restore(interrupt.State(s))
}
