// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Service   ServiceConfig
	STT       STTConfig
	Naming    NamingConfig
	Limits    LimitsConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Convert   ConvertConfig
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
}

// STTConfig selects and configures the transcription engine.
type STTConfig struct {
	// Provider is "fal" or "mock".
	Provider        string
	FalEndpoint     string
	FalAPIKey       string
	DefaultLanguage string
	TagAudioEvents  bool
	Diarize         bool
}

// NamingConfig configures the speaker-naming language model.
type NamingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// LimitsConfig bounds accepted audio uploads.
type LimitsConfig struct {
	MaxDurationSeconds      float64
	MaxFileSizeBytes        int64
	AdvisoryDurationSeconds float64
}

// RateLimitConfig shapes the per-client fixed window.
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// KafkaConfig configures the transcript event publisher.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicCompleted string
	TopicSpeakers  string
	Principal      string
}

// ConvertConfig controls the simplified-to-traditional conversion step.
type ConvertConfig struct {
	TraditionalChinese bool
}

// Load reads configuration from the environment with defaults suitable for
// local development.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-cantonese-stt")
	return &Config{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		STT: STTConfig{
			Provider:        envOrDefault("STT_PROVIDER", "mock"),
			FalEndpoint:     envOrDefault("FAL_ENDPOINT", ""),
			FalAPIKey:       envOrDefault("FAL_AI_API_KEY", ""),
			DefaultLanguage: envOrDefault("STT_LANGUAGE_CODE", "yue"),
			TagAudioEvents:  envBool("STT_TAG_AUDIO_EVENTS", true),
			Diarize:         envBool("STT_DIARIZE", true),
		},
		Naming: NamingConfig{
			BaseURL: envOrDefault("NAMING_BASE_URL", ""),
			APIKey:  envOrDefault("NAMING_API_KEY", ""),
			Model:   envOrDefault("NAMING_MODEL", "deepseek/deepseek-r1"),
		},
		Limits: LimitsConfig{
			MaxDurationSeconds:      envFloat("LIMIT_MAX_DURATION_SECONDS", 600),
			MaxFileSizeBytes:        envInt64("LIMIT_MAX_FILE_SIZE_BYTES", 50*1024*1024),
			AdvisoryDurationSeconds: envFloat("LIMIT_ADVISORY_DURATION_SECONDS", 300),
		},
		RateLimit: RateLimitConfig{
			Window:      envDuration("RATE_LIMIT_WINDOW", 24*time.Hour),
			MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 10),
		},
		Kafka: KafkaConfig{
			Enabled:        envBool("KAFKA_ENABLED", false),
			Brokers:        envList("KAFKA_BROKERS"),
			TopicCompleted: envOrDefault("KAFKA_TOPIC_COMPLETED", "transcript.completed"),
			TopicSpeakers:  envOrDefault("KAFKA_TOPIC_SPEAKERS", "transcript.speakers-identified"),
			Principal:      principal,
		},
		Convert: ConvertConfig{
			TraditionalChinese: envBool("CONVERT_TRADITIONAL", true),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
