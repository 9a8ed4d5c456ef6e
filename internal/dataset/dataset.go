// Package dataset loads dataset files into soa stores and writes them back,
// detecting the record format and compression from the file name.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/soa/pkg/arrowconv"
	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/mmap"
	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Format is the record layout of a dataset file.
type Format string

const (
	// JSON is a single array of objects.
	JSON Format = "json"
	// NDJSON is one object per line.
	NDJSON Format = "ndjson"
	// CSV has a header row naming the columns.
	CSV Format = "csv"
	// Arrow is an Arrow IPC file.
	Arrow Format = "arrow"
	// Parquet is a Parquet file with snappy-compressed pages.
	Parquet Format = "parquet"
)

// File describes how to read or write one dataset file. Empty Format and
// Compression are detected from Path.
type File struct {
	Path        string
	Format      Format
	Compression compression.Algorithm
	Level       compression.Level
}

// Resolve fills in Format and Compression from the path where they are
// unset.
func (f File) Resolve() (File, error) {
	alg, base := compression.FromPath(f.Path)
	if f.Compression == "" {
		f.Compression = alg
	}
	if f.Format == "" {
		format, err := DetectFormat(base)
		if err != nil {
			return f, err
		}
		f.Format = format
	}
	if f.Level == 0 {
		f.Level = compression.Default
	}
	return f, nil
}

// DetectFormat maps a file extension to a Format. path must already be
// stripped of any compression extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return JSON, nil
	case ".ndjson", ".jsonl":
		return NDJSON, nil
	case ".csv":
		return CSV, nil
	case ".arrow", ".ipc", ".feather":
		return Arrow, nil
	case ".parquet", ".pq":
		return Parquet, nil
	default:
		return "", soaerrors.New(soaerrors.ErrorTypeFile, "cannot detect format").
			WithDetail("path", path).
			WithDetail("extension", ext)
	}
}

// Load reads f into a new store. JSON and NDJSON stores take their columns
// from the first record in alphabetical order; the other formats keep the
// file's column order.
func Load(f File, opts ...soa.Option) (*soa.Store[any], error) {
	f, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	if (f.Format == Arrow || f.Format == Parquet) && f.Compression == compression.None {
		return loadMapped(f, opts...)
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open dataset").WithDetail("path", f.Path)
	}
	defer file.Close()

	r, err := compression.NewReader(bufio.NewReader(file), f.Compression)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open decompressor").
			WithDetail("path", f.Path).
			WithDetail("compression", f.Compression)
	}
	defer r.Close()

	s, err := Decode(r, f.Format, opts...)
	if err != nil {
		return nil, withPath(err, f.Path)
	}
	return s, nil
}

// loadMapped decodes an uncompressed Arrow or Parquet file straight from a
// memory mapping instead of copying it into the heap first.
func loadMapped(f File, opts ...soa.Option) (*soa.Store[any], error) {
	m, err := mmap.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	read := arrowconv.ReadBytes
	if f.Format == Parquet {
		read = arrowconv.ReadParquetBytes
	}
	s, err := read(m.Bytes(), opts...)
	if err != nil {
		return nil, withPath(err, f.Path)
	}
	return s, nil
}

// Save writes s to f, creating or truncating the file.
func Save(f File, s *soa.Store[any]) (err error) {
	f, err = f.Resolve()
	if err != nil {
		return err
	}

	file, err := os.Create(f.Path)
	if err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create dataset").WithDetail("path", f.Path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = soaerrors.Wrap(cerr, soaerrors.ErrorTypeFile, "close dataset").WithDetail("path", f.Path)
		}
	}()

	bw := bufio.NewWriter(file)
	w, err := compression.NewWriter(bw, f.Compression, f.Level)
	if err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open compressor").
			WithDetail("path", f.Path).
			WithDetail("compression", f.Compression)
	}

	if err := Encode(w, f.Format, s); err != nil {
		return withPath(err, f.Path)
	}
	if err := w.Close(); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "flush compressor").WithDetail("path", f.Path)
	}
	if err := bw.Flush(); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "flush dataset").WithDetail("path", f.Path)
	}
	return nil
}

// Decode reads a whole dataset in the given format from r.
func Decode(r io.Reader, format Format, opts ...soa.Option) (*soa.Store[any], error) {
	switch format {
	case JSON, NDJSON:
		return decodeJSON(r, opts...)
	case CSV:
		return decodeCSV(r, opts...)
	case Arrow:
		return arrowconv.ReadFile(r, opts...)
	case Parquet:
		return arrowconv.ReadParquet(r, opts...)
	default:
		return nil, unsupported(format)
	}
}

// Encode writes s to w in the given format.
func Encode(w io.Writer, format Format, s *soa.Store[any]) error {
	switch format {
	case JSON, NDJSON:
		return encodeJSON(w, format, s)
	case CSV:
		return encodeCSV(w, s)
	case Arrow:
		return arrowconv.WriteFile(w, s, arrowconv.DefaultBatchSize)
	case Parquet:
		return arrowconv.WriteParquet(w, s, arrowconv.DefaultBatchSize, arrowconv.DefaultParquetCodec)
	default:
		return unsupported(format)
	}
}

func unsupported(format Format) error {
	return soaerrors.New(soaerrors.ErrorTypeFile, fmt.Sprintf("unsupported format %q", format))
}

func withPath(err error, path string) error {
	var se *soaerrors.Error
	if errors.As(err, &se) {
		if _, exists := se.Details["path"]; !exists {
			se.WithDetail("path", path)
		}
	}
	return err
}
