package arrowconv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// DefaultBatchSize is the number of rows per record batch written by
// WriteFile when batchSize is not positive.
const DefaultBatchSize = 64 * 1024

// WriteFile writes s to w as an Arrow IPC file, splitting rows into
// batches of batchSize.
func WriteFile(w io.Writer, s *soa.Store[any], batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	mem := memory.NewGoAllocator()

	rec, err := ToRecord(s, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create arrow writer")
	}

	rows := rec.NumRows()
	for start := int64(0); start < rows; start += int64(batchSize) {
		end := min(start+int64(batchSize), rows)
		batch := rec.NewSlice(start, end)
		err := fw.Write(batch)
		batch.Release()
		if err != nil {
			fw.Close()
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "write record batch").
				WithDetail("offset", start)
		}
	}

	if err := fw.Close(); err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "close arrow writer")
	}
	return nil
}

// ReadFile reads an Arrow IPC file into a new store. The file is buffered
// in memory because the IPC footer sits at the end of the stream.
func ReadFile(r io.Reader, opts ...soa.Option) (*soa.Store[any], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read arrow data")
	}
	return ReadBytes(data, opts...)
}

// ReadBytes decodes an Arrow IPC file held in data. The store does not
// reference data once ReadBytes returns, so data may be a memory mapping
// that is unmapped afterwards.
func ReadBytes(data []byte, opts ...soa.Option) (*soa.Store[any], error) {
	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open arrow file")
	}
	defer fr.Close()

	schema := fr.Schema()
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	s, err := soa.New[any](names, opts...)
	if err != nil {
		return nil, err
	}

	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, fmt.Sprintf("read record batch %d", i))
		}
		if err := AppendRecord(s, rec); err != nil {
			return nil, err
		}
	}
	return s, nil
}
