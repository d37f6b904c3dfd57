package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediascribe/internal/config"
	"mediascribe/internal/domain"
)

type fakeExecutor struct {
	calls [][]string
	err   error
	run   func(args []string) error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.run != nil {
		if err := f.run(args); err != nil {
			return "", err
		}
	}
	return "", f.err
}

func testConfig() config.Config {
	return config.Config{
		AudioBitrate:     "128k",
		AudioSampleRate:  "44100",
		ChunkLimitBytes:  1024,
		TranscodeTimeout: time.Minute,
	}
}

func TestNormalizeRejectsUnknownExtension(t *testing.T) {
	exec := &fakeExecutor{}
	n := NewNormalizer(exec, zerolog.Nop(), testConfig())

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := n.Normalize(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Empty(t, exec.calls, "no transcode may be attempted for rejected formats")
}

func TestNormalizeAudioUnderLimitPassesThrough(t *testing.T) {
	exec := &fakeExecutor{}
	n := NewNormalizer(exec, zerolog.Nop(), testConfig())

	path := filepath.Join(t.TempDir(), "small.mp3")
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o644))

	out, err := n.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, out)
	assert.Empty(t, exec.calls)
}

func TestNormalizeVideoInvokesFFmpeg(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		run: func(args []string) error {
			// ffmpeg writes its output file; the fake does the same.
			return os.WriteFile(args[len(args)-1], []byte("audio"), 0o644)
		},
	}
	n := NewNormalizer(exec, zerolog.Nop(), testConfig())

	path := filepath.Join(dir, "lecture.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	out, err := n.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lecture_normalized.mp3"), out)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, "ffmpeg", call[0])
	assert.Contains(t, call, "-vn")
	assert.Contains(t, call, "-ac")
	assert.Contains(t, call, "libmp3lame")
}

func TestNormalizeOversizedAudioReencodes(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		run: func(args []string) error {
			return os.WriteFile(args[len(args)-1], []byte("smaller"), 0o644)
		},
	}
	n := NewNormalizer(exec, zerolog.Nop(), testConfig())

	path := filepath.Join(dir, "big.wav")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))

	out, err := n.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.NotEqual(t, path, out)
	assert.Len(t, exec.calls, 1)
}

func TestNormalizeFFmpegFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1: unknown codec")}
	n := NewNormalizer(exec, zerolog.Nop(), testConfig())

	path := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	_, err := n.Normalize(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrTranscode)
	assert.Contains(t, err.Error(), "unknown codec")
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".MP4", true},
		{".wav", true},
		{".m4a", true},
		{".txt", false},
		{".webm", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AllowedExtension(tt.ext), "ext %q", tt.ext)
	}
}
