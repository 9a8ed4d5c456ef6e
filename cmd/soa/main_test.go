package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/pkg/json"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
	"github.com/ajitpratap0/soa/pkg/testutil"
)

const peopleCSV = `name,score
Alice,230
Bobby,500
Carry,132
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func readNames(t *testing.T, path string) []any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := json.DecodeRecords(f)
	require.NoError(t, err)
	names := make([]any, len(records))
	for i, r := range records {
		names[i] = r["name"]
	}
	return names
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "soa v"+version)
	assert.Contains(t, out, "OS/Arch:")
}

func TestSortCommand(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))
	out := filepath.Join(t.TempDir(), "sorted.ndjson")

	stdout, _, err := execute(t, "sort", "--in", in, "--out", out, "--by", "score", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sorted 3 rows")
	assert.Equal(t, []any{"Carry", "Alice", "Bobby"}, readNames(t, out))
}

func TestSortCommandDescendingCompressed(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))
	out := filepath.Join(t.TempDir(), "sorted.json.zst")

	_, _, err := execute(t, "sort", "-i", in, "-o", out, "--by", "score", "--desc", "--log-level", "error")
	require.NoError(t, err)

	plain := filepath.Join(t.TempDir(), "plain.json")
	_, _, err = execute(t, "sort", "-i", out, "-o", plain, "--by", "name", "--text", "--desc", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, []any{"Carry", "Bobby", "Alice"}, readNames(t, plain))
}

func TestSortCommandFromConfig(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))
	out := filepath.Join(filepath.Dir(in), "out.json")
	cfg := testutil.WriteFile(t, "sort.yaml", []byte(`
log:
  level: error
sort:
  by: [score]
  descending: true
input:
  path: `+in+`
output:
  path: `+out+`
`))

	_, _, err := execute(t, "sort", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, []any{"Bobby", "Alice", "Carry"}, readNames(t, out))
}

func TestSortCommandErrors(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))
	out := filepath.Join(t.TempDir(), "out.json")

	t.Run("missing keys", func(t *testing.T) {
		_, _, err := execute(t, "sort", "--in", in, "--out", out, "--log-level", "error")
		require.Error(t, err)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeConfig))
	})

	t.Run("missing paths", func(t *testing.T) {
		_, _, err := execute(t, "sort", "--by", "score", "--log-level", "error")
		require.Error(t, err)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeConfig))
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := execute(t, "sort", "--in", in, "--out", out, "--by", "age", "--log-level", "error")
		require.Error(t, err)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeColumn))
		assert.NoFileExists(t, out)
	})

	t.Run("unknown compression", func(t *testing.T) {
		_, _, err := execute(t, "sort", "--in", in, "--out", out, "--by", "score",
			"--compression", "brotli", "--log-level", "error")
		require.Error(t, err)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeConfig))
	})
}

func TestSortCommandTracing(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))
	out := filepath.Join(t.TempDir(), "out.json")

	_, stderr, err := execute(t, "sort", "--in", in, "--out", out, "--by", "score", "--trace", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dataset.load")
	assert.Contains(t, stderr, "store.sort")
	assert.Contains(t, stderr, "dataset.save")
}

func TestInspectCommand(t *testing.T) {
	in := testutil.WriteFile(t, "people.csv", []byte(peopleCSV))

	out, _, err := execute(t, "inspect", "--in", in, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "rows:    3")
	assert.Contains(t, out, "columns: 2")
	assert.Regexp(t, `0\s+name\s+utf8`, out)
	assert.Regexp(t, `1\s+score\s+float64`, out)
}

func TestInspectCommandRequiresInput(t *testing.T) {
	_, _, err := execute(t, "inspect")
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out, stderr, err := execute(t, "bench", "--rows", "200", "--count", "2", "--metrics", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "run 1:")
	assert.Contains(t, out, "run 2:")
	assert.Contains(t, out, "average:")
	assert.Contains(t, stderr, "soa_sort_duration_seconds")
	assert.Contains(t, stderr, `store="cli"`)
}

func TestBenchCommandAscendingIsQuadratic(t *testing.T) {
	out, _, err := execute(t, "bench", "--rows", "100", "--count", "1", "--order", "ascending", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "4950 comparisons")
}

func TestBenchCommandRejectsUnknownOrder(t *testing.T) {
	_, _, err := execute(t, "bench", "--order", "sideways", "--log-level", "error")
	require.Error(t, err)
	assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeValidation))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "2.0 MiB", formatBytes(2<<20))
}
