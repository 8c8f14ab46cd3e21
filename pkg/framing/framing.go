// Package framing implements the binary record stream used by the capture
// firmware: fixed-size little-endian records emitted back-to-back with no
// length prefix or checksum. Each record opens with a 4-byte all-ones
// marker, followed by a 4-byte elapsed-microseconds timestamp and two
// 2-byte sample values. A reader resynchronizes by scanning for the marker.
package framing

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Marker opens every record on the wire.
	Marker uint32 = 0xFFFFFFFF

	markerSize = 4
	// RecordSize is the encoded size of one record, marker included.
	RecordSize = markerSize + 4 + 2 + 2
)

// Record is one sample pair with its capture timestamp.
type Record struct {
	Micros uint32 // microseconds since the producer started
	V1     uint16
	V2     uint16
}

// Writer emits records to an underlying byte stream. It buffers nothing,
// so it is safe to hand it a UART that must be fed record by record.
type Writer struct {
	w   io.Writer
	buf [RecordSize]byte
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord encodes and writes one record.
func (w *Writer) WriteRecord(r Record) error {
	binary.LittleEndian.PutUint32(w.buf[0:4], Marker)
	binary.LittleEndian.PutUint32(w.buf[4:8], r.Micros)
	binary.LittleEndian.PutUint16(w.buf[8:10], r.V1)
	binary.LittleEndian.PutUint16(w.buf[10:12], r.V2)
	if _, err := w.w.Write(w.buf[:]); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Reader decodes records from a byte stream. Before every record it scans
// byte by byte for the marker, so it recovers from garbage, truncated
// records, and joining a stream mid-record.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadRecord blocks until a complete record has arrived and returns it.
// Bytes preceding the next marker are discarded.
func (r *Reader) ReadRecord() (Record, error) {
	if err := r.sync(); err != nil {
		return Record{}, err
	}

	var body [RecordSize - markerSize]byte
	if _, err := io.ReadFull(r.r, body[:]); err != nil {
		return Record{}, fmt.Errorf("read record body: %w", err)
	}

	return Record{
		Micros: binary.LittleEndian.Uint32(body[0:4]),
		V1:     binary.LittleEndian.Uint16(body[4:6]),
		V2:     binary.LittleEndian.Uint16(body[6:8]),
	}, nil
}

// sync consumes input until four consecutive marker bytes have been seen.
func (r *Reader) sync() error {
	matched := 0
	var b [1]byte
	for matched < markerSize {
		if _, err := io.ReadFull(r.r, b[:]); err != nil {
			return fmt.Errorf("sync to marker: %w", err)
		}
		if b[0] == 0xFF {
			matched++
		} else {
			matched = 0
		}
	}
	return nil
}
