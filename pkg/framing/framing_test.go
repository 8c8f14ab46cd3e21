package framing

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	records := []Record{
		{Micros: 0, V1: 0, V2: 0},
		{Micros: 123456, V1: 1023, V2: 512},
		{Micros: 4294967295, V1: 65535, V2: 1},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, rec := range records {
		require.NoError(t, w.WriteRecord(rec))
	}
	assert.Equal(t, len(records)*RecordSize, buf.Len())

	r := NewReader(&buf)
	for i, want := range records {
		got, err := r.ReadRecord()
		require.NoError(t, err, "record %d", i)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadRecord()
	assert.Error(t, err, "exhausted stream should fail to sync")
}

func TestWireLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(Record{Micros: 0x04030201, V1: 0x0605, V2: 0x0807}))

	want := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, // marker
		0x01, 0x02, 0x03, 0x04, // micros, little endian
		0x05, 0x06, // v1
		0x07, 0x08, // v2
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestReaderResyncsAfterGarbage(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0xFF, 0xFF, 0x13, 0x37, 0x00}) // noise with a partial marker run
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(Record{Micros: 42, V1: 7, V2: 9}))

	r := NewReader(&buf)
	got, err := r.ReadRecord()
	require.NoError(t, err)
	assert.Equal(t, Record{Micros: 42, V1: 7, V2: 9}, got)
}

func TestReaderJoinsStreamMidRecord(t *testing.T) {
	var full bytes.Buffer
	w := NewWriter(&full)
	require.NoError(t, w.WriteRecord(Record{Micros: 1, V1: 10, V2: 20}))
	require.NoError(t, w.WriteRecord(Record{Micros: 2, V1: 30, V2: 40}))

	// Drop the first half of the first record, as a receiver attaching to
	// a running producer would see.
	stream := full.Bytes()[RecordSize/2:]

	r := NewReader(bytes.NewReader(stream))
	got, err := r.ReadRecord()
	require.NoError(t, err)
	assert.Equal(t, Record{Micros: 2, V1: 30, V2: 40}, got)
}

func TestReaderTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(Record{Micros: 3, V1: 4, V2: 5}))

	truncated := buf.Bytes()[:RecordSize-3]
	r := NewReader(bytes.NewReader(truncated))
	_, err := r.ReadRecord()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
