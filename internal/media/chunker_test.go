package media

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediascribe/internal/domain"
)

func writeTempFile(t *testing.T, size int) string {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}

	path := filepath.Join(t.TempDir(), "audio.mp3")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSplitSingleChunkUnderLimit(t *testing.T) {
	path := writeTempFile(t, 100)

	chunks, err := Split(path, 256)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, int64(0), chunks[0].Offset)
	assert.Equal(t, int64(100), chunks[0].Size)
}

func TestSplitSingleChunkExactlyAtLimit(t *testing.T) {
	path := writeTempFile(t, 256)

	chunks, err := Split(path, 256)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, int64(256), chunks[0].Size)
}

func TestSplitExactMultiple(t *testing.T) {
	const limit = 128
	path := writeTempFile(t, 3*limit)

	chunks, err := Split(path, limit)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, int64(i*limit), c.Offset)
		assert.LessOrEqual(t, c.Size, int64(limit))
	}
}

func TestSplitRemainderChunk(t *testing.T) {
	// Mirrors the 60 MB wav / 25 MB limit scenario at small scale:
	// 60 units with a 25-unit limit gives chunks of 25, 25, 10.
	path := writeTempFile(t, 60)

	chunks, err := Split(path, 25)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, int64(25), chunks[0].Size)
	assert.Equal(t, int64(25), chunks[1].Size)
	assert.Equal(t, int64(10), chunks[2].Size)
}

func TestSplitConcatenationReconstructsSource(t *testing.T) {
	path := writeTempFile(t, 1000)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	chunks, err := Split(path, 300)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var rebuilt bytes.Buffer
	var prevEnd int64
	for _, c := range chunks {
		assert.Equal(t, prevEnd, c.Offset, "chunks must be contiguous")
		prevEnd = c.Offset + c.Size

		_, err := io.Copy(&rebuilt, io.NewSectionReader(f, c.Offset, c.Size))
		require.NoError(t, err)
	}

	assert.Equal(t, int64(len(original)), prevEnd)
	assert.Equal(t, original, rebuilt.Bytes())
}

func TestSplitInvalidLimit(t *testing.T) {
	path := writeTempFile(t, 10)

	_, err := Split(path, 0)
	assert.ErrorIs(t, err, domain.ErrChunking)
}

func TestSplitEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Split(path, 100)
	assert.ErrorIs(t, err, domain.ErrChunking)
}

func TestSplitMissingFile(t *testing.T) {
	_, err := Split(filepath.Join(t.TempDir(), "nope.mp3"), 100)
	assert.ErrorIs(t, err, domain.ErrChunking)
}

func TestChunkFilenameKeepsExtension(t *testing.T) {
	name := ChunkFilename("/tmp/session/audio_normalized.mp3", Chunk{Index: 2})
	assert.Equal(t, "chunk-002.mp3", name)
}
