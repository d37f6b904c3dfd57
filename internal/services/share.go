package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"mediascribe/internal/config"
)

// ShareService issues expiring HMAC-signed URLs for exported PDFs, so a
// transcript can be handed out without exposing the API-authenticated app.
type ShareService struct {
	secret  string
	baseURL string
	ttl     time.Duration
}

func NewShareService(cfg config.Config) *ShareService {
	return &ShareService{
		secret:  cfg.ShareSecret,
		baseURL: cfg.BaseURL,
		ttl:     cfg.ShareTTL,
	}
}

// Generate returns a signed absolute URL for the session's PDF and its
// expiry time.
func (s *ShareService) Generate(sessionID string) (string, time.Time) {
	expiresAt := time.Now().Add(s.ttl)
	path := fmt.Sprintf("/pdf/%s", sessionID)
	signed := fmt.Sprintf("%s?exp=%d&sig=%s", path, expiresAt.Unix(), s.sign(path, expiresAt.Unix()))
	return s.baseURL + signed, expiresAt
}

// Validate checks a presented signature against the path and expiry in
// constant time. Expiry itself is checked by the caller.
func (s *ShareService) Validate(path string, expiresAt int64, signature string) bool {
	expected := s.sign(path, expiresAt)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (s *ShareService) sign(path string, expiresAt int64) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	fmt.Fprintf(h, "%s:%d", path, expiresAt)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(h.Sum(nil))
}
