// Package adc implements a round-robin interrupt-driven sampling engine
// over a hardware analog-to-digital converter.
//
// The engine cycles through a "fast" list of channels on every conversion
// and interleaves one channel from a "slow" list after each full fast-list
// pass, so latency-critical inputs get maximum throughput while the rest
// are sampled at an amortized lower rate.
package adc

import (
	"time"

	"github.com/adclabs/fastadc/pkg/intr"
)

// MaxChannels is the capacity of the latest-sample array, sized for the
// largest supported input mux (16 channels). Chips with an 8-channel mux
// simply leave the upper half unused.
const MaxChannels = 16

// Converter abstracts the hardware converter. Start configures the input
// mux for channel and begins a single conversion; the conversion-complete
// interrupt must be wired to deliver the result through Engine.Complete
// (usually via ServiceInterrupt).
type Converter interface {
	Start(channel uint8)
}

// PassObserver receives list-completion notifications. Both methods run
// inside the conversion-complete handler, before the next conversion is
// started, so implementations must stay short.
type PassObserver interface {
	FastPassComplete(e *Engine)
	SlowPassComplete(e *Engine)
}

// Layout maps board-relative analog pin numbers (A0, A1, ...) onto raw mux
// channel indices.
type Layout struct {
	Channels uint8 // number of mux inputs on the chip
	PinBase  uint8 // pin number of A0 on the board
}

var (
	// Uno8 covers ATmega328-class boards: 8 mux inputs, A0 at pin 14.
	Uno8 = Layout{Channels: 8, PinBase: 14}
	// Mega16 covers ATmega2560-class boards: 16 mux inputs, A0 at pin 54.
	Mega16 = Layout{Channels: 16, PinBase: 54}
)

// Channel returns the raw channel index for p, which may already be a raw
// index or may be a board pin number at or above PinBase.
func (l Layout) Channel(p uint8) uint8 {
	if p < l.Channels {
		return p
	}
	return p - l.PinBase
}

// Engine drives a Converter in continuous round-robin mode. Construct it
// with New, call Begin once, and wire the conversion-complete interrupt to
// Complete; from then on the handler keeps the converter busy forever.
//
// Exactly one channel is in flight at any instant. The sample array entry
// for a channel always holds the most recently completed conversion, never
// the in-flight one.
type Engine struct {
	conv   Converter
	obs    PassObserver
	layout Layout
	now    func() int64

	fast []uint8
	slow []uint8

	samples  [MaxChannels]uint16
	inflight uint8
	fastIdx  int
	slowIdx  int
	onFast   bool

	startUS   int64
	convUS    int64
	handlerUS int64
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithClock replaces the microsecond clock used for the conversion and
// handler duration diagnostics.
func WithClock(now func() int64) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New builds an engine over conv that samples every fast channel once per
// handler invocation and one slow channel per full fast pass. Channel
// numbers in both lists are normalized through layout, so A0-style pin
// numbers and raw indices can be mixed freely. obs may be nil.
//
// The fast list must not be empty; the slow list may be. An empty fast
// list is a contract violation, not a checked error.
func New(conv Converter, layout Layout, fast, slow []uint8, obs PassObserver, opts ...Option) *Engine {
	e := &Engine{
		conv:   conv,
		obs:    obs,
		layout: layout,
		now:    micros,
		fast:   normalize(layout, fast),
		slow:   normalize(layout, slow),
		onFast: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func normalize(l Layout, pins []uint8) []uint8 {
	out := make([]uint8, len(pins))
	for i, p := range pins {
		out[i] = l.Channel(p)
	}
	return out
}

func micros() int64 {
	return time.Now().UnixNano() / 1000
}

// Begin registers the engine for interrupt dispatch and starts the first
// conversion on the first fast channel. The engine has no stop: it runs
// until the device resets.
func (e *Engine) Begin() {
	Use(e)
	e.startConversion(e.fast[0])
}

// Complete is the conversion-complete handler. It stores the result for
// the in-flight channel, selects the next channel per the round-robin
// policy, and starts the next conversion. It must run only in the
// interrupt context; foreground code never observes it mid-step.
func (e *Engine) Complete(value uint16) {
	entered := e.now()
	e.convUS = entered - e.startUS
	e.samples[e.inflight] = value

	var next uint8
	if e.onFast {
		e.fastIdx++
		if e.fastIdx < len(e.fast) {
			next = e.fast[e.fastIdx]
		} else {
			e.fastIdx = 0
			if len(e.slow) > 0 {
				// One slow channel is a single-conversion detour
				// between two fast passes.
				e.onFast = false
				next = e.slow[e.slowIdx]
			} else {
				next = e.fast[0]
			}
			if e.obs != nil {
				e.obs.FastPassComplete(e)
			}
		}
	} else {
		e.onFast = true
		next = e.fast[0]
		e.slowIdx++
		if e.slowIdx >= len(e.slow) {
			e.slowIdx = 0
			if e.obs != nil {
				e.obs.SlowPassComplete(e)
			}
		}
	}

	e.startConversion(next)
	e.handlerUS = e.now() - entered
}

func (e *Engine) startConversion(ch uint8) {
	e.inflight = ch
	e.startUS = e.now()
	e.conv.Start(ch)
}

// Sample returns the latest completed value for one channel, identified by
// raw index or board pin number.
func (e *Engine) Sample(p uint8) uint16 {
	ch := e.layout.Channel(p)
	var v uint16
	intr.Critical(func() {
		v = e.samples[ch]
	})
	return v
}

// Samples copies the latest values for channels [0, len(buf)) into buf in
// one guarded region, so the set is mutually consistent. buf must not be
// longer than MaxChannels.
func (e *Engine) Samples(buf []uint16) {
	intr.Critical(func() {
		copy(buf, e.samples[:])
	})
}

// ConversionTime returns the duration in microseconds between the last
// conversion start and its completion handler.
func (e *Engine) ConversionTime() int64 {
	var t int64
	intr.Critical(func() {
		t = e.convUS
	})
	return t
}

// HandlerTime returns the duration in microseconds the last handler spent
// storing the result and starting the next conversion.
func (e *Engine) HandlerTime() int64 {
	var t int64
	intr.Critical(func() {
		t = e.handlerUS
	})
	return t
}
