package media

import (
	"fmt"
	"os"
	"path/filepath"

	"mediascribe/internal/domain"
)

// Chunk is one contiguous byte range of a normalized audio file. Chunks have
// no identity beyond their index; ordered concatenation reconstructs the
// source file exactly.
//
// Splitting is by byte offset, so a word spoken across a boundary may be
// truncated in that chunk's transcript. Accepted limitation of the current
// strategy; silence-aware splitting would change product behavior.
type Chunk struct {
	Index  int
	Offset int64
	Size   int64
}

// Split divides the file at path into the minimum number of in-order chunks,
// each at or below limit. A file already at or below the limit yields
// exactly one chunk spanning the whole file.
func Split(path string, limit int64) ([]Chunk, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: invalid chunk limit %d", domain.ErrChunking, limit)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat audio: %v", domain.ErrChunking, err)
	}

	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: audio file %q is empty", domain.ErrChunking, filepath.Base(path))
	}

	count := int((size + limit - 1) / limit)
	chunks := make([]Chunk, 0, count)

	for i := 0; i < count; i++ {
		offset := int64(i) * limit
		chunkSize := limit
		if remaining := size - offset; remaining < chunkSize {
			chunkSize = remaining
		}
		chunks = append(chunks, Chunk{Index: i, Offset: offset, Size: chunkSize})
	}

	return chunks, nil
}

// ChunkFilename names a chunk for upload, keeping the source extension so
// the transcription API can infer the container format.
func ChunkFilename(sourcePath string, c Chunk) string {
	ext := filepath.Ext(sourcePath)
	return fmt.Sprintf("chunk-%03d%s", c.Index, ext)
}
