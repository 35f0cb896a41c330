package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
)

const defaultFunctionName = "sendNotification"

// Config defines the *single*, authoritative configuration.
type Config struct {
	ProjectID       string
	ListenAddr      string
	CredentialsFile string
	FunctionName    string

	CorsConfig middleware.CorsConfig
}

// RoutePath is the HTTP path the callable is served on.
func (c *Config) RoutePath() string {
	return "/" + c.FunctionName
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	// 1. Apply Environment Overrides
	if val := os.Getenv("GOOGLE_CLOUD_PROJECT"); val != "" && cfg.ProjectID == "" {
		logger.Debug("Overriding config value", "key", "GOOGLE_CLOUD_PROJECT", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("PORT"); val != "" {
		logger.Debug("Overriding config value", "key", "PORT", "source", "env")
		cfg.ListenAddr = ":" + val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FIREBASE_CREDENTIALS_FILE", "source", "env")
		cfg.CredentialsFile = val
	}
	if val := os.Getenv("FUNCTION_NAME"); val != "" {
		logger.Debug("Overriding config value", "key", "FUNCTION_NAME", "source", "env")
		cfg.FunctionName = val
	}

	// CORS Overrides
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		logger.Debug("Overriding config value", "key", "CORS_ALLOWED_ORIGINS", "source", "env")
		rawOrigins := strings.Split(corsOrigins, ",")
		var cleanOrigins []string
		for _, o := range rawOrigins {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cleanOrigins = append(cleanOrigins, trimmed)
			}
		}
		cfg.CorsConfig.AllowedOrigins = cleanOrigins
	}

	// 2. Final Validation
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (set via YAML, PROJECT_ID or GOOGLE_CLOUD_PROJECT env var)")
	}
	cfg.FunctionName = strings.Trim(cfg.FunctionName, "/")
	if cfg.FunctionName == "" {
		cfg.FunctionName = defaultFunctionName
	}
	if strings.ContainsAny(cfg.FunctionName, "/ ") {
		return nil, fmt.Errorf("function_name %q must be a single path segment", cfg.FunctionName)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
