package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Write(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStore(root)

	relPath, err := fs.Write("2024-03-01_42_folha.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/holerites/2024-03-01_42_folha.pdf", relPath)

	data, err := os.ReadFile(filepath.Join(root, "holerites", "2024-03-01_42_folha.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestFileStore_OverwriteIsSafe(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	_, err := fs.Write("unknown_9_folha.pdf", []byte("v1"))
	require.NoError(t, err)

	// Retries produce the same derived name; the second write wins.
	relPath, err := fs.Write("unknown_9_folha.pdf", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/holerites/unknown_9_folha.pdf", relPath)
}

func TestFileStore_WriteFailure(t *testing.T) {
	// Using a regular file as the upload root makes MkdirAll fail.
	root := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	fs := NewFileStore(root)
	_, err := fs.Write("a.pdf", []byte("x"))
	assert.Error(t, err)
}
