//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/adclabs/fastadc/pkg/adc"
	"github.com/adclabs/fastadc/pkg/framing"
)

var uart = machine.UART0

// boardConverter adapts the machine ADC to the engine's Converter. The
// core library exposes blocking conversions only, so Start just latches
// the mux selection and the main loop plays the completion interrupt by
// reading the selected input and handing the result to ServiceInterrupt.
type boardConverter struct {
	inputs   []machine.ADC
	selected uint8
}

func (c *boardConverter) Start(channel uint8) {
	c.selected = channel
}

// recordEmitter sends one framed record per fast pass carrying the two
// fast channel values.
type recordEmitter struct {
	w     *framing.Writer
	start time.Time
}

func (r *recordEmitter) FastPassComplete(e *adc.Engine) {
	rec := framing.Record{
		Micros: uint32(time.Since(r.start).Microseconds()),
		V1:     e.Sample(fastChannels[0]),
		V2:     e.Sample(fastChannels[1]),
	}
	// A full UART buffer just drops the record; the stream format
	// resynchronizes on the next marker.
	_ = r.w.WriteRecord(rec)
}

func (r *recordEmitter) SlowPassComplete(e *adc.Engine) {
}

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	machine.InitADC()

	conv := &boardConverter{inputs: make([]machine.ADC, len(adcPins))}
	for i, pin := range adcPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		conv.inputs[i] = machine.ADC{Pin: pin}
		conv.inputs[i].Configure(machine.ADCConfig{})
	}

	emitter := &recordEmitter{
		w:     framing.NewWriter(uart),
		start: time.Now(),
	}

	layout := adc.Layout{Channels: uint8(len(adcPins))}
	engine := adc.New(conv, layout, fastChannels, slowChannels, emitter)
	engine.Begin()

	// Drive the engine: every completed read stores the result and starts
	// the next conversion via the round-robin handler.
	for {
		value := conv.inputs[conv.selected].Get()
		adc.ServiceInterrupt(value)
	}
}
