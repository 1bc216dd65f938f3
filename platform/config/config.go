// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported text generation providers.
const (
	ProviderGemini   = "gemini"
	ProviderMoonshot = "moonshot"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerMinute() int
	GetRateLimitBurst() int
}

// LLMConfig provides settings for the text generation provider.
type LLMConfig interface {
	GetLLMProvider() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetMoonshotAPIKey() string
	GetMoonshotModel() string
	GetMoonshotBaseURL() string
}

// ScoringConfig provides settings for the scoring pipeline.
type ScoringConfig interface {
	GetScoringConcurrency() int
	GetClassifierTimeout() time.Duration
	GetClassifierRatePerSecond() float64
	GetClassifierBurst() int
	GetAutoScoreOnUpload() bool
}

// CacheConfig provides settings for the classification cache.
type CacheConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetClassificationCacheTTL() time.Duration
	IsClassificationCacheEnabled() bool
}

// SchedulerConfig provides settings for the background job queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIORegion() string
	GetMinioBucketExports() string
	IsMinIOEnabled() bool
}

// ExportConfig provides settings for result export snapshots.
type ExportConfig interface {
	GetMinioBucketExports() string
	GetExportOnScore() bool
	GetExportURLTTL() time.Duration
	GetExportRetention() time.Duration
	GetExportCleanupInterval() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	RateLimitPerMinute      int
	RateLimitBurst          int
	LLMProvider             string
	GeminiAPIKey            string
	GeminiModel             string
	MoonshotAPIKey          string
	MoonshotModel           string
	MoonshotBaseURL         string
	ScoringConcurrency      int
	ClassifierTimeout       time.Duration
	ClassifierRatePerSecond float64
	ClassifierBurst         int
	AutoScoreOnUpload       bool
	RedisURL                string
	RedisTLSInsecure        bool
	ClassificationCacheTTL  time.Duration
	AsynqQueueName          string
	AsynqConcurrency        int
	MinIOEndpoint           string
	MinIOAccessKey          string
	MinIOSecretKey          string
	MinIOUseSSL             bool
	MinIORegion             string
	MinioBucketExports      string
	ExportOnScore           bool
	ExportURLTTL            time.Duration
	ExportRetention         time.Duration
	ExportCleanupInterval   time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerMinute() int { return c.RateLimitPerMinute }
func (c *Config) GetRateLimitBurst() int     { return c.RateLimitBurst }

// LLMConfig implementation
func (c *Config) GetLLMProvider() string     { return c.LLMProvider }
func (c *Config) GetGeminiAPIKey() string    { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string     { return c.GeminiModel }
func (c *Config) GetMoonshotAPIKey() string  { return c.MoonshotAPIKey }
func (c *Config) GetMoonshotModel() string   { return c.MoonshotModel }
func (c *Config) GetMoonshotBaseURL() string { return c.MoonshotBaseURL }

// ScoringConfig implementation
func (c *Config) GetScoringConcurrency() int          { return c.ScoringConcurrency }
func (c *Config) GetClassifierTimeout() time.Duration { return c.ClassifierTimeout }
func (c *Config) GetClassifierRatePerSecond() float64 { return c.ClassifierRatePerSecond }
func (c *Config) GetClassifierBurst() int             { return c.ClassifierBurst }
func (c *Config) GetAutoScoreOnUpload() bool          { return c.AutoScoreOnUpload }

// CacheConfig and SchedulerConfig implementation
func (c *Config) GetRedisURL() string                      { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool                { return c.RedisTLSInsecure }
func (c *Config) GetClassificationCacheTTL() time.Duration { return c.ClassificationCacheTTL }
func (c *Config) IsClassificationCacheEnabled() bool {
	return c.RedisURL != "" && c.ClassificationCacheTTL > 0
}
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIORegion() string        { return c.MinIORegion }
func (c *Config) GetMinioBucketExports() string { return c.MinioBucketExports }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// ExportConfig implementation
func (c *Config) GetExportOnScore() bool                  { return c.ExportOnScore }
func (c *Config) GetExportURLTTL() time.Duration          { return c.ExportURLTTL }
func (c *Config) GetExportRetention() time.Duration       { return c.ExportRetention }
func (c *Config) GetExportCleanupInterval() time.Duration { return c.ExportCleanupInterval }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitPerMinute:      mustInt(getEnv("RATE_LIMIT_PER_MINUTE", "120")),
		RateLimitBurst:          mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		LLMProvider:             strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", ProviderGemini))),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		MoonshotAPIKey:          getEnv("MOONSHOT_API_KEY", ""),
		MoonshotModel:           getEnv("MOONSHOT_MODEL", "kimi-k2-turbo-preview"),
		MoonshotBaseURL:         getEnv("MOONSHOT_BASE_URL", ""),
		ScoringConcurrency:      mustInt(getEnv("SCORING_CONCURRENCY", "4")),
		ClassifierTimeout:       mustDuration(getEnv("SCORING_CLASSIFIER_TIMEOUT", "20s")),
		ClassifierRatePerSecond: mustFloat(getEnv("SCORING_CLASSIFIER_RPS", "0")),
		ClassifierBurst:         mustInt(getEnv("SCORING_CLASSIFIER_BURST", "1")),
		AutoScoreOnUpload:       strings.EqualFold(getEnv("AUTO_SCORE_ON_UPLOAD", "false"), "true"),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		ClassificationCacheTTL:  mustDuration(getEnv("CLASSIFICATION_CACHE_TTL", "0s")),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "scoring"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		MinIOEndpoint:           getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:             strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIORegion:             getEnv("MINIO_REGION", ""),
		MinioBucketExports:      getEnv("MINIO_BUCKET_EXPORTS", "lead-exports"),
		ExportOnScore:           strings.EqualFold(getEnv("EXPORT_ON_SCORE", "false"), "true"),
		ExportURLTTL:            mustDuration(getEnv("EXPORT_URL_TTL", "15m")),
		ExportRetention:         mustDuration(getEnv("EXPORT_RETENTION", "168h")),
		ExportCleanupInterval:   mustDuration(getEnv("EXPORT_CLEANUP_INTERVAL", "1h")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER is gemini")
		}
	case ProviderMoonshot:
		if c.MoonshotAPIKey == "" {
			return fmt.Errorf("MOONSHOT_API_KEY is required when LLM_PROVIDER is moonshot")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.ScoringConcurrency < 1 {
		return fmt.Errorf("SCORING_CONCURRENCY must be at least 1")
	}
	if c.ClassifierTimeout <= 0 {
		return fmt.Errorf("SCORING_CLASSIFIER_TIMEOUT must be a positive duration")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.AutoScoreOnUpload && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when AUTO_SCORE_ON_UPLOAD is true")
	}
	if c.ExportOnScore && !c.IsMinIOEnabled() {
		return fmt.Errorf("MINIO_ENDPOINT is required when EXPORT_ON_SCORE is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
