// Package intr provides a critical-section guard for state shared between
// an interrupt handler and foreground code on a single-core target.
//
// The model is a single global interrupt-enable flag: disabling it pauses
// every asynchronous handler system-wide, so guarded regions must stay down
// to a few instructions or conversion results and timing-sensitive
// interrupts are delayed or lost.
package intr

// State holds the saved interrupt-enable state across a critical section.
type State uintptr

// Save disables interrupts and returns the enable state that was in effect
// just before the call.
func Save() State {
	return disable()
}

// Restore re-enables interrupts only if they were enabled when the matching
// Save was taken. Restoring an already-disabled state is a no-op, so an
// inner Save/Restore pair never re-enables interrupts under an outer one.
func Restore(s State) {
	restore(s)
}

// Critical runs fn with interrupts masked and restores the previous state
// on every exit path, including a panic inside fn.
func Critical(fn func()) {
	s := disable()
	defer restore(s)
	fn()
}
