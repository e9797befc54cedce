package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"doc-chat/internal/logger"
)

type Config struct {
	Environment string
	Port        string
	LogLevel    string
	OpenAI      OpenAIConfig
	Chat        ChatConfig
	Extraction  ExtractionConfig
}

type OpenAIConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	AzureEndpoint   string
	AzureAPIVersion string
}

type ChatConfig struct {
	// ResponseMode selects how completion output reaches the caller:
	// "streaming" relays text/plain fragments as they arrive,
	// "buffered" collects the full answer into a JSON body.
	ResponseMode string
	// DocumentCharLimit caps the document message sent to the
	// completion provider; TurnCharLimit caps conversational turns.
	DocumentCharLimit int
	TurnCharLimit     int
}

type ExtractionConfig struct {
	PDFTextFallback bool
	OCREnabled      bool
	OCRLanguage     string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o"),
			BaseURL:         getEnv("OPENAI_BASE_URL", ""),
			AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
		},
		Chat: ChatConfig{
			ResponseMode:      getEnv("RESPONSE_MODE", "streaming"),
			DocumentCharLimit: getIntEnv("DOCUMENT_CHAR_LIMIT", 15000),
			TurnCharLimit:     getIntEnv("TURN_CHAR_LIMIT", 2000),
		},
		Extraction: ExtractionConfig{
			PDFTextFallback: getBoolEnv("PDF_TEXT_FALLBACK", true),
			OCREnabled:      getBoolEnv("OCR_ENABLED", false),
			OCRLanguage:     getEnv("OCR_LANGUAGE", "eng"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv rejects unparseable and non-positive values: a character
// budget of zero would silently disable truncation downstream.
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logger.WithFields(logrus.Fields{
			"key":   key,
			"value": value,
		}).Warn("Invalid numeric value, using default")
		return defaultValue
	}
	return parsed
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
