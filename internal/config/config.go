package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Detector backends understood by FACE_DETECTOR
const (
	DetectorPigo = "pigo"
	DetectorNone = "none"
)

type Config struct {
	Host                  string
	Port                  string
	RequestTimeout        time.Duration
	AnalysisTimeout       time.Duration
	MaxUploadSize         int64
	ThumbnailMaxSize      int
	StylesheetPath        string
	FaceDetector          string
	FaceCascadePath       string
	PupilCascadePath      string
	ReportTTL             time.Duration
	MaxConcurrentAnalyses int
	RateLimitPerSecond    float64
	CORSAllowedOrigins    []string
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureAllowedHosts     []string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob-sourced analysis can be served
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                  getEnvOrDefault("PORT", "8080"),
		RequestTimeout:        parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		AnalysisTimeout:       parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxUploadSize:         parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		ThumbnailMaxSize:      int(parseIntOrDefault("THUMBNAIL_MAX_SIZE", 400)),
		StylesheetPath:        getEnvOrDefault("STYLESHEET_PATH", "assets/style.css"),
		FaceDetector:          strings.ToLower(getEnvOrDefault("FACE_DETECTOR", DetectorNone)),
		FaceCascadePath:       os.Getenv("FACE_CASCADE_PATH"),
		PupilCascadePath:      os.Getenv("PUPIL_CASCADE_PATH"),
		ReportTTL:             parseDurationOrDefault("REPORT_TTL", 30*time.Minute),
		MaxConcurrentAnalyses: int(parseIntOrDefault("MAX_CONCURRENT_ANALYSES", 0)),
		RateLimitPerSecond:    parseFloatOrDefault("RATE_LIMIT_PER_SECOND", 10),
		CORSAllowedOrigins:    parseListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureAllowedHosts:     parseListOrDefault("AZURE_ALLOWED_HOSTS", nil),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxUploadSize)
	}
	if c.ThumbnailMaxSize <= 0 {
		return fmt.Errorf("THUMBNAIL_MAX_SIZE must be > 0 (got %d)", c.ThumbnailMaxSize)
	}
	if c.RequestTimeout <= 0 || c.AnalysisTimeout <= 0 || c.ReportTTL <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, analysis=%s, report_ttl=%s)",
			c.RequestTimeout, c.AnalysisTimeout, c.ReportTTL)
	}
	if c.MaxConcurrentAnalyses < 0 {
		return fmt.Errorf("MAX_CONCURRENT_ANALYSES must be >= 0 (got %d)", c.MaxConcurrentAnalyses)
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be > 0 (got %g)", c.RateLimitPerSecond)
	}
	switch c.FaceDetector {
	case DetectorNone:
	case DetectorPigo:
		if c.FaceCascadePath == "" {
			return fmt.Errorf("FACE_CASCADE_PATH is required when FACE_DETECTOR=%s", DetectorPigo)
		}
	default:
		return fmt.Errorf("unsupported FACE_DETECTOR: %q", c.FaceDetector)
	}
	if (c.AzureStorageAccount == "") != (c.AzureStorageKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
