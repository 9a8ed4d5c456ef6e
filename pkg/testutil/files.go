package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// FileSuite provides a scratch directory for tests that read and write
// dataset files.
type FileSuite struct {
	suite.Suite
	tempDir string
}

// SetupTest creates a fresh directory before each test.
func (s *FileSuite) SetupTest() {
	dir, err := os.MkdirTemp("", "soa-test-*")
	require.NoError(s.T(), err)
	s.tempDir = dir
}

// TearDownTest removes the directory.
func (s *FileSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// TempDir returns the scratch directory.
func (s *FileSuite) TempDir() string {
	return s.tempDir
}

// Path returns name joined to the scratch directory.
func (s *FileSuite) Path(name string) string {
	return filepath.Join(s.tempDir, name)
}

// CreateTempFile writes content to name inside the scratch directory.
func (s *FileSuite) CreateTempFile(name string, content []byte) string {
	path := s.Path(name)
	err := os.WriteFile(path, content, 0o644)
	require.NoError(s.T(), err)
	return path
}

// WriteFile is CreateTempFile for tests that do not use the suite.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
