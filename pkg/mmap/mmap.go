// Package mmap maps dataset files into memory read-only, so decoders that
// need random access (such as the Arrow IPC reader) can work on the file
// without first copying it into the heap.
package mmap

import (
	"os"
	"sync"

	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// File is a read-only mapping of a whole file.
type File struct {
	path string
	data []byte

	mu     sync.Mutex
	file   *os.File
	mapped bool
}

// Open maps path into memory. An empty file yields a File with no data.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "open file").WithDetail("path", path)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "stat file").WithDetail("path", path)
	}

	m := &File{path: path, file: file}
	if stat.Size() == 0 {
		return m, nil
	}

	data, mapped, err := mapFile(file, int(stat.Size()))
	if err != nil {
		file.Close()
		return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "map file").
			WithDetail("path", path).
			WithDetail("size", stat.Size())
	}
	m.data, m.mapped = data, mapped
	return m, nil
}

// Bytes returns the file contents. The slice is only valid until Close
// and must not be modified.
func (m *File) Bytes() []byte {
	return m.data
}

// Len returns the size of the file in bytes.
func (m *File) Len() int {
	return len(m.data)
}

// Path returns the mapped file's path.
func (m *File) Path() string {
	return m.path
}

// Close unmaps and closes the file. It is safe to call more than once.
func (m *File) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.mapped && m.data != nil {
		err = unmap(m.data)
	}
	m.data, m.mapped = nil, false

	if m.file != nil {
		if cerr := m.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.file = nil
	}
	if err != nil {
		return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "close mapped file").WithDetail("path", m.path)
	}
	return nil
}
