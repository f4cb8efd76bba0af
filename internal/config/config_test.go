package config

import (
	"os"
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("DefaultsWithGeminiKey", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		os.Unsetenv("ORACLE_PROVIDER")
		os.Unsetenv("NUTRIPLAN_DB_PATH")
		os.Unsetenv("ORACLE_TIMEOUT_SECONDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OracleProvider != ProviderGemini {
			t.Errorf("Expected provider %q, got %q", ProviderGemini, cfg.OracleProvider)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.DatabasePath != "data/nutriplan.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if cfg.OracleTimeout != 30*time.Second {
			t.Errorf("Expected default timeout 30s, got %v", cfg.OracleTimeout)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		t.Setenv("ORACLE_PROVIDER", "gemini")
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("GroqProvider", func(t *testing.T) {
		t.Setenv("ORACLE_PROVIDER", "groq")
		t.Setenv("GROQ_API_KEY", "groq_key")
		os.Unsetenv("GEMINI_API_KEY")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("Expected GroqAPIKey 'groq_key', got '%s'", cfg.GroqAPIKey)
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		t.Setenv("ORACLE_PROVIDER", "groq")
		os.Unsetenv("GROQ_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		t.Setenv("ORACLE_PROVIDER", "oracle-9000")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("CustomTimeout", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("ORACLE_PROVIDER", "gemini")
		t.Setenv("ORACLE_TIMEOUT_SECONDS", "5")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OracleTimeout != 5*time.Second {
			t.Errorf("Expected timeout 5s, got %v", cfg.OracleTimeout)
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("ORACLE_TIMEOUT_SECONDS", "soon")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid timeout, got nil")
		}
	})
}
