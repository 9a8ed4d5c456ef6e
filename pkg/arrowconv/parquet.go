package arrowconv

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// DefaultParquetCodec is the page compression used by WriteParquet.
var DefaultParquetCodec = compress.Codecs.Snappy

// WriteParquet writes s to w as a Parquet file with one row group per
// batchSize rows. w is never closed.
func WriteParquet(w io.Writer, s *soa.Store[any], batchSize int, codec compress.Compression) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	mem := memory.NewGoAllocator()

	rec, err := ToRecord(s, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithDictionaryDefault(true),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem))

	// The parquet writer closes its sink if it can.
	sink := struct{ io.Writer }{w}
	fw, err := pqarrow.NewFileWriter(rec.Schema(), sink, props, arrowProps)
	if err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create parquet writer")
	}

	rows := rec.NumRows()
	for start := int64(0); start < rows; start += int64(batchSize) {
		end := min(start+int64(batchSize), rows)
		batch := rec.NewSlice(start, end)
		err := fw.Write(batch)
		batch.Release()
		if err != nil {
			fw.Close()
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "write row group").
				WithDetail("offset", start)
		}
	}

	if err := fw.Close(); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "close parquet writer")
	}
	return nil
}

// ReadParquet reads a whole Parquet file from r. Like ReadFile it buffers
// the input because the footer is at the end.
func ReadParquet(r io.Reader, opts ...soa.Option) (*soa.Store[any], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read parquet data")
	}
	return ReadParquetBytes(data, opts...)
}

// ReadParquetBytes decodes a Parquet file held in data. As with ReadBytes
// the store keeps no reference to data.
func ReadParquetBytes(data []byte, opts ...soa.Option) (*soa.Store[any], error) {
	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open parquet file")
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: DefaultBatchSize}, mem)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create parquet arrow reader")
	}

	schema, err := fr.Schema()
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read parquet schema")
	}
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	s, err := soa.New[any](names, opts...)
	if err != nil {
		return nil, err
	}
	s.Grow(int(pf.NumRows()))

	rr, err := fr.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read parquet row groups")
	}
	defer rr.Release()

	for rr.Next() {
		if err := AppendRecord(s, rr.Record()); err != nil {
			return nil, err
		}
	}
	if err := rr.Err(); err != nil && err != io.EOF {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read parquet record batch")
	}
	return s, nil
}
