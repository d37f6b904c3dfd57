package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mediascribe/internal/domain"
)

type Config struct {
	Port            string
	OpenAIAPIKey    string
	TranscribeModel string
	ChatModel       string

	BaseURL     string
	ShareSecret string
	ShareTTL    time.Duration

	DataDir        string
	MaxUploadBytes int64

	// ChunkLimitBytes is the transcription API upload ceiling minus the
	// safety margin. Chunks never exceed it.
	ChunkLimitBytes int64

	AudioBitrate     string
	AudioSampleRate  string
	TranscodeTimeout time.Duration

	RetryAttempts       int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	SummaryWords int
	KeyIdeas     int

	LogLevel string
}

func LoadConfig() (Config, error) {
	cfg := Config{}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrMissingCredential)
	}

	cfg.TranscribeModel = envOrDefault("OPENAI_MODEL_TRANSCRIBE", "whisper-1")
	cfg.ChatModel = envOrDefault("OPENAI_MODEL_CHAT", "gpt-4o-mini")

	cfg.BaseURL = envOrDefault("BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))
	cfg.ShareSecret = envOrDefault("SHARE_SECRET", "change-me")
	cfg.DataDir = envOrDefault("DATA_DIR", "data")
	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")

	shareTTLSeconds, err := parseIntEnv("SHARE_TTL_SECONDS", 86400)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHARE_TTL_SECONDS: %w", err)
	}
	cfg.ShareTTL = time.Duration(shareTTLSeconds) * time.Second

	maxUploadMB, err := parseIntEnv("MAX_UPLOAD_MB", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadBytes = maxUploadMB * 1024 * 1024

	ceilingMB, err := parseIntEnv("CHUNK_CEILING_MB", 25)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHUNK_CEILING_MB: %w", err)
	}
	marginMB, err := parseIntEnv("CHUNK_MARGIN_MB", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHUNK_MARGIN_MB: %w", err)
	}
	if marginMB >= ceilingMB {
		return Config{}, fmt.Errorf("CHUNK_MARGIN_MB (%d) must be below CHUNK_CEILING_MB (%d)", marginMB, ceilingMB)
	}
	cfg.ChunkLimitBytes = (ceilingMB - marginMB) * 1024 * 1024

	cfg.AudioBitrate = envOrDefault("AUDIO_BITRATE", "128k")
	cfg.AudioSampleRate = envOrDefault("AUDIO_SAMPLE_RATE", "44100")

	transcodeTimeoutSec, err := parseIntEnv("TRANSCODE_TIMEOUT_SECONDS", 300)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSCODE_TIMEOUT_SECONDS: %w", err)
	}
	cfg.TranscodeTimeout = time.Duration(transcodeTimeoutSec) * time.Second

	retryAttempts, err := parseIntEnv("RETRY_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_ATTEMPTS: %w", err)
	}
	cfg.RetryAttempts = int(retryAttempts)
	cfg.RetryInitialBackoff = time.Second
	cfg.RetryMaxBackoff = 30 * time.Second

	summaryWords, err := parseIntEnv("SUMMARY_WORDS", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUMMARY_WORDS: %w", err)
	}
	cfg.SummaryWords = int(summaryWords)

	keyIdeas, err := parseIntEnv("KEY_IDEAS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse KEY_IDEAS: %w", err)
	}
	cfg.KeyIdeas = int(keyIdeas)

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int64) (int64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}

	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
