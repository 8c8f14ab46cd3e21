package capture

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"go.bug.st/serial"

	"github.com/adclabs/fastadc/pkg/framing"
)

const (
	// DefaultBaudRate matches the rate the capture firmware configures.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the records channel buffer.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads framed records from a serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	records   chan framing.Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and
// buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		records:   make(chan framing.Record, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading records.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// Start reading records in a goroutine
	go d.readRecords(d.conn)

	return nil
}

// Close closes the connection and stops reading records.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	// Close serial port
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Records returns the channel for reading records.
func (d *Serial) Records() <-chan framing.Record {
	return d.records
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readRecords decodes framed records from the serial port. The decoder
// resynchronizes on the record marker, so a receiver attaching to a running
// board picks up at the next record boundary. It owns the records channel:
// closing happens here, never concurrently with a send.
func (d *Serial) readRecords(conn io.Reader) {
	defer close(d.records)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readRecords: %v", r)
		}
	}()

	reader := framing.NewReader(conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			rec, err := reader.ReadRecord()
			if err != nil {
				// The port read fails once Close tears the connection
				// down; anything else is worth a diagnostic.
				select {
				case <-d.ctx.Done():
				default:
					log.Printf("Error reading record: %v", err)
				}
				return
			}

			// Send record to channel (non-blocking)
			select {
			case d.records <- rec:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Printf("Records channel full, dropping record")
			}
		}
	}
}
