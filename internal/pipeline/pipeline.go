// Package pipeline drives a session from upload through transcription and
// serves summarize/ask actions once the transcript is ready.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mediascribe/internal/config"
	"mediascribe/internal/domain"
	"mediascribe/internal/media"
	"mediascribe/internal/storage"
)

// Transcriber converts one audio segment to text.
type Transcriber interface {
	Transcribe(ctx context.Context, r io.Reader, filename string) (string, error)
}

// Completer issues a single language-model call.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Pipeline struct {
	cfg         config.Config
	store       *storage.SessionStore
	files       *storage.FileManager
	normalizer  *media.Normalizer
	transcriber Transcriber
	completer   Completer
	retry       RetryPolicy
	log         zerolog.Logger
}

func New(
	cfg config.Config,
	store *storage.SessionStore,
	files *storage.FileManager,
	normalizer *media.Normalizer,
	transcriber Transcriber,
	completer Completer,
	log zerolog.Logger,
) *Pipeline {
	retry := DefaultRetryPolicy()
	if cfg.RetryAttempts > 0 {
		retry.MaxAttempts = cfg.RetryAttempts
	}
	if cfg.RetryInitialBackoff > 0 {
		retry.InitialBackoff = cfg.RetryInitialBackoff
	}
	if cfg.RetryMaxBackoff > 0 {
		retry.MaxBackoff = cfg.RetryMaxBackoff
	}

	return &Pipeline{
		cfg:         cfg,
		store:       store,
		files:       files,
		normalizer:  normalizer,
		transcriber: transcriber,
		completer:   completer,
		retry:       retry,
		log:         log,
	}
}

// RunMedia executes the full pipeline for an uploaded media file:
// upload → normalize → chunk → transcribe → ready. Any stage failure moves
// the session to failed with the cause retained; scratch files are removed
// on every exit path.
func (p *Pipeline) RunMedia(ctx context.Context, sessionID string, upload io.Reader, filename string) error {
	if err := p.store.BeginPipeline(sessionID, filename, domain.SourceTypeMedia); err != nil {
		return err
	}
	defer p.store.EndPipeline(sessionID)

	log := p.log.With().Str("session", sessionID).Str("file", filename).Logger()

	fail := func(err error) error {
		log.Error().Err(err).Msg("pipeline failed")
		_ = p.store.SetFailed(sessionID, err)
		if rmErr := p.files.RemoveSessionDir(sessionID); rmErr != nil {
			log.Warn().Err(rmErr).Msg("scratch cleanup failed")
		}
		return err
	}

	ext := filepath.Ext(filename)
	if !media.AllowedExtension(ext) {
		return fail(fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext))
	}

	uploadPath, err := p.files.SaveUpload(sessionID, upload, filename)
	if err != nil {
		return fail(fmt.Errorf("save upload: %w", err))
	}

	_ = p.store.SetState(sessionID, domain.StateNormalizing)
	audioPath, err := p.normalizer.Normalize(ctx, uploadPath)
	if err != nil {
		return fail(err)
	}

	_ = p.store.SetState(sessionID, domain.StateChunking)
	chunks, err := media.Split(audioPath, p.cfg.ChunkLimitBytes)
	if err != nil {
		return fail(err)
	}
	log.Info().Int("chunks", len(chunks)).Msg("audio chunked")

	_ = p.store.SetState(sessionID, domain.StateTranscribing)
	transcript, err := p.transcribeChunks(ctx, audioPath, chunks)
	if err != nil {
		return fail(err)
	}

	if err := p.store.SetReady(sessionID, transcript); err != nil {
		return fail(err)
	}
	if err := p.files.RemoveSessionDir(sessionID); err != nil {
		log.Warn().Err(err).Msg("scratch cleanup failed")
	}

	log.Info().Int("transcriptChars", len(transcript)).Msg("session ready")
	return nil
}

// RunText handles a direct plain-text upload: the file content becomes the
// session transcript and the session is ready immediately, bypassing
// normalization and transcription.
func (p *Pipeline) RunText(ctx context.Context, sessionID string, upload io.Reader, filename string) error {
	if err := p.store.BeginPipeline(sessionID, filename, domain.SourceTypeText); err != nil {
		return err
	}
	defer p.store.EndPipeline(sessionID)

	fail := func(err error) error {
		_ = p.store.SetFailed(sessionID, err)
		return err
	}

	limit := p.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = 10 * 1024 * 1024
	}
	data, err := io.ReadAll(io.LimitReader(upload, limit+1))
	if err != nil {
		return fail(fmt.Errorf("read text upload: %w", err))
	}
	if int64(len(data)) > limit {
		return fail(fmt.Errorf("text upload exceeds maximum size of %d bytes", limit))
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return fail(fmt.Errorf("text file %q is empty", filename))
	}

	if err := p.store.SetReady(sessionID, text); err != nil {
		return fail(err)
	}

	p.log.Info().Str("session", sessionID).Str("file", filename).Msg("text session ready")
	return nil
}

// ready returns the session if and only if its transcript is available.
func (p *Pipeline) ready(sessionID string) (domain.Session, error) {
	sess, err := p.store.Get(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.State != domain.StateReady {
		return domain.Session{}, fmt.Errorf("%w: state is %s", domain.ErrNotReady, sess.State)
	}
	return sess, nil
}
