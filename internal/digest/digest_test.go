package digest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Reader(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sum)
			assert.Len(t, sum, Size)
		})
	}
}

func TestFile_MatchesReaderAcrossChunks(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), ChunkSize/16*3+7)
	path := filepath.Join(t.TempDir(), "big.pdf")
	require.NoError(t, os.WriteFile(path, data, 0644))

	fromFile, err := File(path)
	require.NoError(t, err)

	fromReader, err := Reader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, fromReader, fromFile)
}

func TestFile_NotFound(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestValid(t *testing.T) {
	sum, err := Reader(strings.NewReader("abc"))
	require.NoError(t, err)

	assert.True(t, Valid(sum))
	assert.False(t, Valid(sum[:10]))
	assert.False(t, Valid(strings.Repeat("z", Size)))
	assert.False(t, Valid(""))
}
