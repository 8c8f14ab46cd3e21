package adc

// A hardware interrupt vector carries no context argument, so one
// process-wide registration slot bridges it to the live engine. Only a
// single engine may be live at a time; Begin on a second engine replaces
// the first.
var active *Engine

// Use installs e as the engine serviced by ServiceInterrupt. Begin calls
// this automatically.
func Use(e *Engine) {
	active = e
}

// ServiceInterrupt delivers a conversion result to the registered engine.
// Wire this into the conversion-complete vector. It is a no-op while no
// engine is registered.
func ServiceInterrupt(value uint16) {
	if active != nil {
		active.Complete(value)
	}
}
