package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Oracle provider names accepted in ORACLE_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	OracleProvider string
	GeminiAPIKey   string
	GroqAPIKey     string

	DatabasePath  string
	OracleTimeout time.Duration
	LogMode       string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	provider := os.Getenv("ORACLE_PROVIDER")
	if provider == "" {
		provider = ProviderGemini
	}
	if provider != ProviderGemini && provider != ProviderGroq {
		return nil, fmt.Errorf("unknown ORACLE_PROVIDER %q (expected %q or %q)", provider, ProviderGemini, ProviderGroq)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	}

	dbPath := os.Getenv("NUTRIPLAN_DB_PATH")
	if dbPath == "" {
		dbPath = "data/nutriplan.db"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("ORACLE_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid ORACLE_TIMEOUT_SECONDS value %q", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "dev"
	}

	return &Config{
		OracleProvider: provider,
		GeminiAPIKey:   geminiAPIKey,
		GroqAPIKey:     groqAPIKey,
		DatabasePath:   dbPath,
		OracleTimeout:  timeout,
		LogMode:        logMode,
	}, nil
}
