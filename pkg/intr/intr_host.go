//go:build !tinygo

package intr

// Host builds model the interrupt-enable flag with a package variable so
// the save/restore contract is testable without hardware. The flag starts
// enabled, matching an MCU after startup code has run.
var enabled = true

func disable() State {
	was := enabled
	enabled = false
	if was {
		return 1
	}
	return 0
}

func restore(s State) {
	if s != 0 {
		enabled = true
	}
}

// Enabled reports the simulated interrupt-enable flag. Host builds only.
func Enabled() bool {
	return enabled
}
