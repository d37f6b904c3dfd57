// Package media converts uploaded files into normalized mono audio and
// splits the result into bounded byte-range chunks for upload.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediascribe/internal/config"
	"mediascribe/internal/domain"
	"mediascribe/pkg/executor"
)

var audioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".m4a": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
}

const ffmpegBinary = "ffmpeg"

type Normalizer struct {
	exec       executor.Executor
	log        zerolog.Logger
	bitrate    string
	sampleRate string
	passLimit  int64
	timeout    time.Duration
}

func NewNormalizer(exec executor.Executor, log zerolog.Logger, cfg config.Config) *Normalizer {
	return &Normalizer{
		exec:       exec,
		log:        log,
		bitrate:    cfg.AudioBitrate,
		sampleRate: cfg.AudioSampleRate,
		passLimit:  cfg.ChunkLimitBytes,
		timeout:    cfg.TranscodeTimeout,
	}
}

// AllowedExtension reports whether ext (with leading dot) is accepted on the
// media upload path.
func AllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	if _, ok := audioExtensions[ext]; ok {
		return true
	}
	_, ok := videoExtensions[ext]
	return ok
}

// Normalize turns the uploaded file into a single mono compressed audio
// file. Video is always transcoded; audio is passed through unchanged unless
// it exceeds the pass-through limit, in which case it is re-encoded down.
// The returned path lives next to the input; the caller owns cleanup of the
// containing directory.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !AllowedExtension(ext) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: stat input: %v", domain.ErrTranscode, err)
	}

	if _, isAudio := audioExtensions[ext]; isAudio && info.Size() <= n.passLimit {
		n.log.Debug().Str("input", inputPath).Int64("size", info.Size()).Msg("audio under limit, passing through")
		return inputPath, nil
	}

	outputPath := strings.TrimSuffix(inputPath, ext) + "_normalized.mp3"

	n.log.Info().Str("input", inputPath).Str("output", outputPath).Msg("extracting mono audio")

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// -vn drops any video stream, -ac 1 downmixes to mono.
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-acodec", "libmp3lame",
		"-b:a", n.bitrate,
		"-ar", n.sampleRate,
		outputPath,
	}

	if _, err := n.exec.Execute(ctx, ffmpegBinary, args...); err != nil {
		_ = os.Remove(outputPath)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: ffmpeg timed out after %s", domain.ErrTranscode, n.timeout)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrTranscode, err)
	}

	return outputPath, nil
}
