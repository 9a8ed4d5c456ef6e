package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

func testRecords() []soa.Record[any] {
	return []soa.Record[any]{
		{"name": "Alice", "score": 230.0},
		{"name": "Bobby", "score": 500.0},
		{"name": "<Carry>", "score": 132.5},
	}
}

func TestMarshalRecordsArray(t *testing.T) {
	data, err := MarshalRecords(testRecords(), LayoutArray)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("[{")))
	assert.Contains(t, string(data), "<Carry>", "HTML is not escaped")

	decoded, err := DecodeRecords(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, testRecords(), decoded)
}

func TestMarshalRecordsLines(t *testing.T) {
	data, err := MarshalRecords(testRecords(), LayoutLines)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, `{"name":"Alice","score":230}`, lines[0])

	decoded, err := DecodeRecords(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, testRecords(), decoded)
}

func TestMarshalRecordsEmpty(t *testing.T) {
	data, err := MarshalRecords(nil, LayoutArray)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	decoded, err := DecodeRecords(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, decoded)

	decoded, err = DecodeRecords(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeRecordsErrors(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`[{"a":1},`))
	require.Error(t, err)
	assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeFile))

	_, err = DecodeRecords(strings.NewReader("{\"a\":1}\n{\"a\":\n"))
	require.Error(t, err)
	rec, ok := soaerrors.DetailOf(err, "record")
	require.True(t, ok)
	assert.Equal(t, 1, rec)
}

func TestDecodeRecordsLeadingWhitespace(t *testing.T) {
	decoded, err := DecodeRecords(strings.NewReader("\n\t [ {\"x\": 1} ]"))
	require.NoError(t, err)
	assert.Equal(t, []soa.Record[any]{{"x": 1.0}}, decoded)
}

func TestStreamingEncoderPretty(t *testing.T) {
	var buf bytes.Buffer
	se, err := NewStreamingEncoder(&buf, true)
	require.NoError(t, err)
	se.SetPretty(true, "  ")
	require.NoError(t, se.Encode(map[string]int{"a": 1}))
	require.NoError(t, se.Encode(map[string]int{"a": 2}))
	require.NoError(t, se.Close())

	var out []map[string]int
	require.NoError(t, Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []map[string]int{{"a": 1}, {"a": 2}}, out)
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("data")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Zero(t, again.Len())
	PutBuffer(again)
}

func BenchmarkMarshalRecordsLines(b *testing.B) {
	records := make([]soa.Record[any], 1000)
	for i := range records {
		records[i] = soa.Record[any]{"id": float64(i), "name": "row", "score": float64(i % 97)}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MarshalRecords(records, LayoutLines); err != nil {
			b.Fatal(err)
		}
	}
}
