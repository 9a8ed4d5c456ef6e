package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ajitpratap0/soa/pkg/json"
	"github.com/ajitpratap0/soa/pkg/pool"
	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

func decodeJSON(r io.Reader, opts ...soa.Option) (*soa.Store[any], error) {
	records, err := json.DecodeRecords(r)
	if err != nil {
		return nil, err
	}
	return soa.FromRecords(records, opts...)
}

func encodeJSON(w io.Writer, format Format, s *soa.Store[any]) error {
	layout := json.LayoutLines
	if format == JSON {
		layout = json.LayoutArray
	}
	return json.EncodeRecords(w, s.ToRecords(), layout)
}

// decodeCSV appends each CSV row straight into the store's columns. Cells
// that parse as numbers become float64; everything else stays a string,
// interned so repeated values share storage.
func decodeCSV(r io.Reader, opts ...soa.Option) (*soa.Store[any], error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, soaerrors.New(soaerrors.ErrorTypeFile, "csv has no header row")
	}
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read csv header")
	}

	s, err := soa.New[any](append([]string(nil), header...), opts...)
	if err != nil {
		return nil, err
	}

	text := pool.NewInterner(pool.DefaultInternSize)
	row := make([]any, len(header))
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read csv row").WithDetail("row", s.Len())
		}
		for i, cell := range cells {
			row[i] = parseCell(cell, text)
		}
		if err := s.Push(row...); err != nil {
			return nil, err
		}
	}
}

func parseCell(cell string, text *pool.Interner) any {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return text.Intern(cell)
}

func encodeCSV(w io.Writer, s *soa.Store[any]) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(s.Columns()); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "write csv header")
	}

	cells := make([]string, s.Arity())
	var values []any
	for i := 0; i < s.Len(); i++ {
		values, _ = s.ReadInto(i, values)
		for c, v := range values {
			cells[c] = formatCell(v)
		}
		if err := writer.Write(cells); err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "write csv row").WithDetail("row", i)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "flush csv")
	}
	return nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
