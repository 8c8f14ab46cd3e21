package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMean     = 1024
	testBinWidth = 25
)

// twoPassVariance computes the textbook Bessel-corrected variance directly.
func twoPassVariance(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := sum / float64(len(samples))

	var sq float64
	for _, s := range samples {
		d := float64(s) - mean
		sq += d * d
	}
	return sq / float64(len(samples)-1)
}

func TestVarianceMatchesTwoPass(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
	}{
		{
			name:    "two samples",
			samples: []float32{1000, 1050},
		},
		{
			name:    "ramp",
			samples: []float32{990, 1000, 1010, 1020, 1030, 1040, 1050},
		},
		{
			name:    "noisy around assumed mean",
			samples: []float32{1023, 1031, 1017, 1009, 1040, 1022, 1025, 1019, 1028, 1016},
		},
		{
			name:    "far from assumed mean",
			samples: []float32{4001, 4017, 3980, 4025, 3999, 4012},
		},
		{
			name:    "small spread on big offset",
			samples: []float32{60000, 60001, 60002, 60001, 60000, 59999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(testMean, testBinWidth)
			for _, s := range tt.samples {
				a.Update(s)
			}

			want := twoPassVariance(tt.samples)
			got := float64(a.Variance())
			require.NotZero(t, want)
			assert.InEpsilon(t, want, got, 1e-3,
				"incremental variance should match the two-pass formula")
		})
	}
}

func TestMeanExactForEqualSamples(t *testing.T) {
	for _, n := range []int{1, 2, 5, 100} {
		a := New(testMean, testBinWidth)
		const v float32 = 1017
		for i := 0; i < n; i++ {
			a.Update(v)
		}
		// All deltas from the offset anchor are exactly zero, so the mean
		// must come out exact, not merely close.
		assert.Equal(t, v, a.Mean(), "mean of %d equal samples", n)
		assert.Equal(t, uint32(n), a.Count())
	}
}

func TestHistogramCenterBin(t *testing.T) {
	a := New(testMean, testBinWidth)
	a.Update(testMean)

	var hist [Bins]uint32
	a.Histogram(&hist)

	assert.Equal(t, uint32(1), hist[Bins/2], "a sample exactly at the assumed mean lands in the center bin")
	for i, c := range hist {
		if i != Bins/2 {
			assert.Zero(t, c, "bin %d should be empty", i)
		}
	}
}

func TestHistogramBinEdges(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		bin    int
	}{
		{name: "center", sample: testMean, bin: 5},
		{name: "just below center", sample: testMean - 1, bin: 4},
		{name: "one bin up", sample: testMean + testBinWidth, bin: 6},
		{name: "bottom edge", sample: testMean - 5*testBinWidth, bin: 0},
		{name: "top bin", sample: testMean + 4*testBinWidth, bin: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(testMean, testBinWidth)
			a.Update(tt.sample)

			var hist [Bins]uint32
			a.Histogram(&hist)
			assert.Equal(t, uint32(1), hist[tt.bin])
		})
	}
}

func TestHistogramDropsOutOfWindowSamples(t *testing.T) {
	a := New(testMean, testBinWidth)

	// Far outside the +/- 5 bin window on both sides.
	a.Update(testMean + 6*testBinWidth)
	a.Update(testMean - 6*testBinWidth)
	a.Update(0)
	a.Update(65535)

	var hist [Bins]uint32
	a.Histogram(&hist)

	for i, c := range hist {
		assert.Zero(t, c, "bin %d should not count out-of-window samples", i)
	}
	// The samples still feed count and the sums.
	assert.Equal(t, uint32(4), a.Count())
	assert.NotZero(t, a.Variance())
}

func TestHistogramSnapshotIsACopy(t *testing.T) {
	a := New(testMean, testBinWidth)
	a.Update(testMean)

	var hist [Bins]uint32
	a.Histogram(&hist)
	hist[Bins/2] = 99

	var again [Bins]uint32
	a.Histogram(&again)
	assert.Equal(t, uint32(1), again[Bins/2], "mutating a snapshot must not touch the accumulator")
}
