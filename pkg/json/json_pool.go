// Package json encodes and decodes soa records with goccy/go-json, reusing
// pooled buffers.
//
// Two layouts are supported: a single JSON array of objects, and
// newline-delimited JSON (one object per line).
package json

import (
	"bufio"
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/soa/pkg/pool"
	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Layout selects how a sequence of records is framed.
type Layout string

const (
	// LayoutArray writes records as one JSON array.
	LayoutArray Layout = "array"
	// LayoutLines writes one JSON object per line.
	LayoutLines Layout = "lines"
)

const maxPooledBuffer = 1024 * 1024

var bufferPool = pool.New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(b *bytes.Buffer) { b.Reset() },
)

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// NewEncoder returns an encoder writing to w that leaves HTML characters
// unescaped.
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// MarshalRecords encodes records in the given layout.
func MarshalRecords(records []soa.Record[any], layout Layout) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := EncodeRecords(buf, records, layout); err != nil {
		return nil, err
	}

	// Create a copy since we're returning the buffer to the pool
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// EncodeRecords streams records to w in the given layout.
func EncodeRecords(w io.Writer, records []soa.Record[any], layout Layout) error {
	se, err := NewStreamingEncoder(w, layout == LayoutArray)
	if err != nil {
		return err
	}
	for i, r := range records {
		if err := se.Encode(r); err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "encode record").WithDetail("record", i)
		}
	}
	return se.Close()
}

// DecodeRecords reads every record from r. The layout is detected from the
// first non-space byte: '[' starts an array, anything else is read as
// newline-delimited objects. Numbers decode as float64.
func DecodeRecords(r io.Reader) ([]soa.Record[any], error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read records")
	}

	dec := gojson.NewDecoder(br)
	if first == '[' {
		var records []soa.Record[any]
		if err := dec.Decode(&records); err != nil {
			return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "decode record array")
		}
		return records, nil
	}

	var records []soa.Record[any]
	for {
		var rec soa.Record[any]
		err := dec.Decode(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "decode record line").
				WithDetail("record", len(records))
		}
		records = append(records, rec)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// StreamingEncoder writes records one at a time, either as the elements of
// a JSON array or as newline-delimited objects.
type StreamingEncoder struct {
	writer      io.Writer
	encoder     *gojson.Encoder
	firstRecord bool
	isArray     bool
	pretty      bool
}

// NewStreamingEncoder creates a new streaming encoder
func NewStreamingEncoder(w io.Writer, isArray bool) (*StreamingEncoder, error) {
	se := &StreamingEncoder{
		writer:      w,
		encoder:     NewEncoder(w),
		firstRecord: true,
		isArray:     isArray,
	}

	if isArray {
		if _, err := w.Write([]byte{'['}); err != nil {
			return nil, err
		}
	}

	return se, nil
}

// SetPretty enables pretty printing
func (se *StreamingEncoder) SetPretty(pretty bool, indent string) {
	se.pretty = pretty
	if pretty {
		se.encoder.SetIndent("", indent)
	}
}

// Encode encodes a single value
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.isArray && !se.firstRecord {
		if _, err := se.writer.Write([]byte{','}); err != nil {
			return err
		}
	}
	se.firstRecord = false

	// The encoder terminates every value with a newline, which also frames
	// the line-delimited layout.
	return se.encoder.Encode(v)
}

// Close finalizes the encoding
func (se *StreamingEncoder) Close() error {
	if se.isArray {
		_, err := se.writer.Write([]byte{']', '\n'})
		return err
	}
	return nil
}
