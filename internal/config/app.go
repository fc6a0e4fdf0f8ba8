package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultLLMBaseURL = "https://api.groq.com/openai/v1"

type AppConfig struct {
	LLM         LLMConfig
	STT         STTConfig
	Audio       AudioConfig
	Kafka       KafkaConfig
	Logging     LoggingConfig
	MetricsAddr string
	ResultsDir  string
}

// LLMConfig описывает OpenAI-совместимый endpoint (по умолчанию Groq)
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type STTConfig struct {
	Provider string // whisper, google, none
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

type AudioConfig struct {
	FFmpegCommand  string
	InputFormat    string
	InputDevice    string
	SampleRate     int
	RecordingsDir  string
	KeepRecordings bool
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func LoadAppConfig() *AppConfig {
	llmKey := firstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("GROQ_API_KEY"), os.Getenv("OPENAI_API_KEY"))

	return &AppConfig{
		LLM: LLMConfig{
			APIKey:      llmKey,
			BaseURL:     getEnv("LLM_BASE_URL", defaultLLMBaseURL),
			Model:       getEnv("LLM_MODEL", "llama3-70b-8192"),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		STT: STTConfig{
			Provider: strings.ToLower(getEnv("STT_PROVIDER", "whisper")),
			APIKey:   firstNonEmpty(os.Getenv("STT_API_KEY"), llmKey),
			BaseURL:  getEnv("STT_BASE_URL", defaultLLMBaseURL),
			Model:    getEnv("STT_MODEL", "whisper-large-v3"),
			Language: getEnv("STT_LANGUAGE", "en-US"),
		},
		Audio: AudioConfig{
			FFmpegCommand:  getEnv("AUDIO_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:    getEnv("AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:    getEnv("AUDIO_INPUT_DEVICE", "default"),
			SampleRate:     getEnvAsInt("AUDIO_SAMPLE_RATE", 16000),
			RecordingsDir:  getEnv("AUDIO_RECORDINGS_DIR", "recordings"),
			KeepRecordings: getEnvAsBool("AUDIO_KEEP_RECORDINGS", true),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "interview.completed"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		ResultsDir:  getEnv("RESULTS_DIR", "results"),
	}
}

// ValidateConfig проверяет корректность конфигурации LLM
func (c *LLMConfig) ValidateConfig() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY (или GROQ_API_KEY) is required")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	return nil
}

// GetModelInfo возвращает информацию о используемой модели
func (c *LLMConfig) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"model":       c.Model,
		"base_url":    c.BaseURL,
		"max_tokens":  c.MaxTokens,
		"temperature": c.Temperature,
		"timeout":     c.Timeout.String(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
