// Package domain holds the session model and the sentinel errors for every
// failure class the pipeline can surface. Each stage wraps one of these with
// %w so callers can classify with errors.Is while the wrapped message keeps
// the underlying cause for display.
package domain

import "errors"

var (
	// ErrUnsupportedFormat indicates the uploaded file's extension is not
	// in the media allow-list. Raised before any transcoding is attempted.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrTranscode indicates ffmpeg failed, timed out, or is not installed.
	ErrTranscode = errors.New("audio transcoding failed")

	// ErrChunking indicates the normalized audio could not be split into
	// segments at or below the upload limit.
	ErrChunking = errors.New("audio chunking failed")

	// ErrTranscription indicates a chunk transcription call failed after
	// retries were exhausted. The whole transcript is discarded.
	ErrTranscription = errors.New("transcription failed")

	// ErrSummarization indicates the summary call failed or the input
	// text was empty.
	ErrSummarization = errors.New("summarization failed")

	// ErrQA indicates answering a question failed, including failure to
	// transcribe a voice-recorded question.
	ErrQA = errors.New("question answering failed")

	// ErrNotReady indicates a Summarize or Ask action was issued while the
	// session pipeline had not reached the ready state.
	ErrNotReady = errors.New("session is not ready")

	// ErrMissingCredential indicates the API key is absent at startup.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrSessionNotFound indicates an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPipelineBusy indicates an upload arrived while the session's
	// pipeline was already running.
	ErrPipelineBusy = errors.New("pipeline already running")
)

func IsUnsupportedFormat(err error) bool { return errors.Is(err, ErrUnsupportedFormat) }

func IsNotReady(err error) bool { return errors.Is(err, ErrNotReady) }

func IsSessionNotFound(err error) bool { return errors.Is(err, ErrSessionNotFound) }
