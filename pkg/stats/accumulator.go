// Package stats implements a streaming mean/variance/histogram accumulator
// designed to be updated from an interrupt handler and read from foreground
// code.
package stats

import (
	"github.com/chewxy/math32"

	"github.com/adclabs/fastadc/pkg/intr"
)

// Bins is the number of histogram counters. The histogram spans a symmetric
// window of Bins*binWidth around the assumed mean.
const Bins = 10

// Accumulator keeps running statistics over a sequence of samples.
//
// The first sample becomes a fixed offset anchor; all sums are taken over
// deltas from that anchor, which keeps the incremental variance numerically
// stable even when the samples sit far from zero.
//
// Writes and reads may come from different contexts, but only one context
// may ever call Update on a given accumulator: either always the interrupt
// handler, or always foreground code.
type Accumulator struct {
	assumedMean float32
	binWidth    float32

	count      uint32
	offset     float32
	sumDelta   float32
	sumDeltaSq float32
	hist       [Bins]uint32
}

// New creates an accumulator whose histogram is centered on assumedMean
// with bins of binWidth. The window only captures samples known in advance
// to cluster near assumedMean; samples outside it are still counted by the
// mean and variance.
func New(assumedMean, binWidth float32) *Accumulator {
	return &Accumulator{
		assumedMean: assumedMean,
		binWidth:    binWidth,
	}
}

// Update folds one sample into the running statistics. It takes no lock:
// it is meant to run inside the single producing context, so guarding it
// here would only add interrupt latency.
func (a *Accumulator) Update(sample float32) {
	if a.count == 0 {
		a.offset = sample
	}
	a.count++
	delta := sample - a.offset
	a.sumDelta += delta
	a.sumDeltaSq += delta * delta

	bin := int(math32.Floor((sample-a.assumedMean)/a.binWidth)) + Bins/2
	if bin >= 0 && bin < Bins {
		a.hist[bin]++
	}
}

// Count returns the number of samples seen so far.
func (a *Accumulator) Count() uint32 {
	var n uint32
	intr.Critical(func() {
		n = a.count
	})
	return n
}

// Mean returns the running mean. The caller must have made at least one
// Update call; with no samples the result is undefined.
func (a *Accumulator) Mean() float32 {
	var (
		n        uint32
		offset   float32
		sumDelta float32
	)
	intr.Critical(func() {
		n = a.count
		offset = a.offset
		sumDelta = a.sumDelta
	})
	return offset + sumDelta/float32(n)
}

// Variance returns the Bessel-corrected sample variance. The caller must
// have made at least two Update calls; with fewer the result is undefined.
func (a *Accumulator) Variance() float32 {
	var (
		n          uint32
		sumDelta   float32
		sumDeltaSq float32
	)
	intr.Critical(func() {
		n = a.count
		sumDelta = a.sumDelta
		sumDeltaSq = a.sumDeltaSq
	})
	fn := float32(n)
	return (sumDeltaSq - sumDelta*sumDelta/fn) / (fn - 1)
}

// StdDev returns the sample standard deviation. Same preconditions as
// Variance.
func (a *Accumulator) StdDev() float32 {
	return math32.Sqrt(a.Variance())
}

// Histogram copies all bin counters atomically into buf, so the snapshot
// is never torn by a concurrent Update.
func (a *Accumulator) Histogram(buf *[Bins]uint32) {
	intr.Critical(func() {
		*buf = a.hist
	})
}
