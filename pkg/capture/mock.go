package capture

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/adclabs/fastadc/pkg/config"
	"github.com/adclabs/fastadc/pkg/framing"
)

// Mock simulates a capture board for testing and development. It produces
// records carrying a sine wave plus deterministic noise, centered and
// scaled per the mock configuration, on the configured sample period.
type Mock struct {
	cfg *config.MockConfig

	records   chan framing.Record
	mu        sync.RWMutex
	done      chan struct{}
	connected bool

	startTime time.Time
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			SamplePeriod: time.Millisecond,
			Center:       1024,
			Amplitude:    400,
			NoiseLevel:   8,
		}
	}

	return &Mock{
		cfg:     cfg,
		records: make(chan framing.Record, DefaultBufferSize),
		done:    make(chan struct{}),
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	// Start generating records
	go m.generateRecords()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	close(m.done)
	m.connected = false

	return nil
}

// Records returns the channel for reading records.
func (m *Mock) Records() <-chan framing.Record {
	return m.records
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateRecords generates simulated records. It owns the records
// channel: closing happens here, never concurrently with a send.
func (m *Mock) generateRecords() {
	defer close(m.records)

	ticker := time.NewTicker(m.cfg.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			rec := m.generateRecord()
			select {
			case m.records <- rec:
			case <-m.done:
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateRecord generates a single simulated record.
func (m *Mock) generateRecord() framing.Record {
	elapsed := time.Since(m.startTime)
	t := elapsed.Seconds()

	// Two phase-shifted sine waves, as if two channels were wired to the
	// same source through different filters.
	noise := (math.Sin(t*1731.0) + math.Cos(t*2237.0)) * m.cfg.NoiseLevel * 0.5
	v1 := m.cfg.Center + m.cfg.Amplitude*math.Sin(2*math.Pi*50*t) + noise
	v2 := m.cfg.Center + m.cfg.Amplitude*math.Sin(2*math.Pi*50*t+math.Pi/3) - noise

	return framing.Record{
		Micros: uint32(elapsed.Microseconds()),
		V1:     clampADC(v1),
		V2:     clampADC(v2),
	}
}

// clampADC converts a simulated value to a 12-bit ADC reading.
func clampADC(v float64) uint16 {
	if v < 0 {
		v = 0
	} else if v > 4095 {
		v = 4095
	}
	return uint16(v)
}
