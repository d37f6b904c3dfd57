package services

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"mediascribe/internal/config"
)

func shareConfig() config.Config {
	return config.Config{
		BaseURL:     "http://localhost:8080",
		ShareSecret: "test-secret",
		ShareTTL:    time.Hour,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewShareService(shareConfig())

	signed, expiresAt := svc.Generate("sess-123")
	if !strings.HasPrefix(signed, "http://localhost:8080/pdf/sess-123?") {
		t.Fatalf("unexpected url %q", signed)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", expiresAt)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	if err != nil {
		t.Fatalf("parse exp: %v", err)
	}

	if !svc.Validate(u.Path, exp, u.Query().Get("sig")) {
		t.Fatal("valid signature rejected")
	}
	if svc.Validate(u.Path, exp, "forged") {
		t.Fatal("forged signature accepted")
	}
	if svc.Validate("/pdf/other-session", exp, u.Query().Get("sig")) {
		t.Fatal("signature accepted for a different path")
	}
	if svc.Validate(u.Path, exp+1, u.Query().Get("sig")) {
		t.Fatal("signature accepted for a different expiry")
	}
}

func TestDifferentSecretsDoNotValidate(t *testing.T) {
	a := NewShareService(shareConfig())

	cfgB := shareConfig()
	cfgB.ShareSecret = "other-secret"
	b := NewShareService(cfgB)

	signed, _ := a.Generate("sess-1")
	u, _ := url.Parse(signed)
	exp, _ := strconv.ParseInt(u.Query().Get("exp"), 10, 64)

	if b.Validate(u.Path, exp, u.Query().Get("sig")) {
		t.Fatal("signature validated across secrets")
	}
}
