package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mediascribe/internal/domain"
	"mediascribe/internal/media"
	"mediascribe/internal/services"
)

// transcribeChunks sends each chunk to the transcription API strictly in
// order and joins the fragments with a single space. A chunk that fails
// after retries aborts the remaining chunks: partial transcripts are never
// returned.
func (p *Pipeline) transcribeChunks(ctx context.Context, audioPath string, chunks []media.Chunk) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: open audio: %v", domain.ErrTranscription, err)
	}
	defer f.Close()

	fragments := make([]string, 0, len(chunks))
	for _, c := range chunks {
		text, err := p.transcribeChunk(ctx, f, audioPath, c)
		if err != nil {
			return "", fmt.Errorf("%w: chunk %d/%d: %v", domain.ErrTranscription, c.Index+1, len(chunks), err)
		}
		if text != "" {
			fragments = append(fragments, text)
		}
	}

	return strings.Join(fragments, " "), nil
}

func (p *Pipeline) transcribeChunk(ctx context.Context, f *os.File, audioPath string, c media.Chunk) (string, error) {
	filename := media.ChunkFilename(audioPath, c)

	var lastErr error
	for attempt := 0; attempt < p.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := p.retry.Backoff(attempt - 1)
			p.log.Warn().
				Str("chunk", filename).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Err(lastErr).
				Msg("retrying chunk transcription")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := p.transcriber.Transcribe(ctx, io.NewSectionReader(f, c.Offset, c.Size), filename)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !services.IsTransient(err) {
			break
		}
	}

	return "", lastErr
}
