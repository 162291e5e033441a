package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings. Values come from an optional YAML file,
// with environment variables taking precedence over both the file and the
// built-in defaults.
type Config struct {
	Port string `yaml:"port"`

	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	AIServiceURL string `yaml:"ai_service_url"`

	SarvamURL    string `yaml:"sarvam_url"`
	SarvamAPIKey string `yaml:"sarvam_api_key"`

	UploadDir string `yaml:"upload_dir"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	SessionTTL      time.Duration `yaml:"session_ttl"`

	UploadSweepSchedule string        `yaml:"upload_sweep_schedule"`
	UploadMaxAge        time.Duration `yaml:"upload_max_age"`
}

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
	"http://127.0.0.1:5175",
}

// LoadConfig reads the optional YAML file at path (ignored when absent),
// then applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Port:                "5000",
		MongoDB:             "ai_interview",
		RedisAddr:           "localhost:6379",
		AIServiceURL:        "http://localhost:8000",
		SarvamURL:           "https://api.sarvam.ai",
		UploadDir:           "uploads",
		AllowedOrigins:      defaultOrigins,
		UpstreamTimeout:     20 * time.Second,
		SessionTTL:          7 * 24 * time.Hour,
		UploadSweepSchedule: "@every 1h",
		UploadMaxAge:        2 * time.Hour,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config) {
	config.Port = getEnvOrDefault("PORT", config.Port)
	config.MongoURI = getEnvOrDefault("MONGO_URI", config.MongoURI)
	config.MongoDB = getEnvOrDefault("MONGO_DB", config.MongoDB)
	config.RedisAddr = getEnvOrDefault("REDIS_ADDR", config.RedisAddr)
	config.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", config.RedisPassword)
	config.AIServiceURL = getEnvOrDefault("AI_SERVICE_URL", config.AIServiceURL)
	config.SarvamURL = getEnvOrDefault("SARVAM_URL", config.SarvamURL)
	config.SarvamAPIKey = getEnvOrDefault("SARVAM_API_KEY", config.SarvamAPIKey)
	config.UploadDir = getEnvOrDefault("UPLOAD_DIR", config.UploadDir)
	config.UploadSweepSchedule = getEnvOrDefault("UPLOAD_SWEEP_SCHEDULE", config.UploadSweepSchedule)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		// fresh slice; truncating in place would write through to defaultOrigins
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			config.AllowedOrigins = cleaned
		}
	}

	config.UpstreamTimeout = getEnvDurationSeconds("UPSTREAM_TIMEOUT_SECONDS", config.UpstreamTimeout)
	config.SessionTTL = getEnvDurationSeconds("SESSION_TTL_SECONDS", config.SessionTTL)
	config.UploadMaxAge = getEnvDurationSeconds("UPLOAD_MAX_AGE_SECONDS", config.UploadMaxAge)
}

func validateConfig(config *Config) error {
	if config.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if config.AIServiceURL == "" {
		return errors.New("AI_SERVICE_URL must not be empty")
	}
	if config.UpstreamTimeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if config.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
