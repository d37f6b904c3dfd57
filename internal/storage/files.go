package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileManager owns the on-disk layout: a scratch directory per session for
// uploads and normalized audio, and a pdf directory for exports. Scratch
// contents are temporary and removed once a pipeline finishes or fails.
type FileManager struct {
	baseDir        string
	scratchDir     string
	pdfDir         string
	maxUploadBytes int64
}

func NewFileManager(baseDir string, maxUploadBytes int64) (*FileManager, error) {
	fm := &FileManager{
		baseDir:        baseDir,
		scratchDir:     filepath.Join(baseDir, "scratch"),
		pdfDir:         filepath.Join(baseDir, "pdf"),
		maxUploadBytes: maxUploadBytes,
	}

	for _, dir := range []string{fm.baseDir, fm.scratchDir, fm.pdfDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	return fm, nil
}

// SaveUpload streams an uploaded file into the session's scratch directory,
// enforcing the upload size limit. The stored name is "upload" plus the
// original extension; the extension is what the normalizer validates.
func (fm *FileManager) SaveUpload(sessionID string, r io.Reader, filename string) (string, error) {
	dir := fm.SessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(filename)))
	path := filepath.Join(dir, "upload"+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	cleanup := func(err error) (string, error) {
		out.Close()
		os.Remove(path)
		return "", err
	}

	var written int64
	if fm.maxUploadBytes > 0 {
		written, err = io.Copy(out, io.LimitReader(r, fm.maxUploadBytes+1))
	} else {
		written, err = io.Copy(out, r)
	}
	if err != nil {
		return cleanup(fmt.Errorf("write upload: %w", err))
	}
	if fm.maxUploadBytes > 0 && written > fm.maxUploadBytes {
		return cleanup(fmt.Errorf("upload exceeds maximum size of %d bytes", fm.maxUploadBytes))
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// SessionDir is the scratch directory owned by one session.
func (fm *FileManager) SessionDir(sessionID string) string {
	return filepath.Join(fm.scratchDir, sessionID)
}

// RemoveSessionDir deletes a session's scratch directory and everything in
// it. Safe to call when the directory never existed.
func (fm *FileManager) RemoveSessionDir(sessionID string) error {
	return os.RemoveAll(fm.SessionDir(sessionID))
}

func (fm *FileManager) PDFPath(sessionID string) string {
	return filepath.Join(fm.pdfDir, fmt.Sprintf("%s.pdf", sessionID))
}

// RemovePDF deletes a session's exported PDF if present.
func (fm *FileManager) RemovePDF(sessionID string) {
	_ = os.Remove(fm.PDFPath(sessionID))
}
