package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// Parse разбирает YAML и валидирует результат
func Parse(data []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	ic := config.InterviewConfig

	if ic.HRQuestionsPerRound <= 0 {
		return fmt.Errorf("hr_questions_per_round должно быть больше 0")
	}

	if ic.TechnicalQuestions <= 0 {
		return fmt.Errorf("technical_questions должно быть больше 0")
	}

	if ic.LowScoreThreshold < 0 || ic.LowScoreThreshold > 10 {
		return fmt.Errorf("low_score_threshold должен быть в диапазоне 0-10")
	}

	if ic.RecordingSeconds <= 0 {
		return fmt.Errorf("recording_seconds должно быть больше 0")
	}

	scale := config.ConfidenceScale
	for _, v := range []float64{scale.Low, scale.Medium, scale.High} {
		if v < 0 || v > 10 {
			return fmt.Errorf("значения confidence_scale должны быть в диапазоне 0-10")
		}
	}
	if !(scale.Low <= scale.Medium && scale.Medium <= scale.High) {
		return fmt.Errorf("confidence_scale должна возрастать: low <= medium <= high")
	}

	if len(config.HRQuestions) < ic.HRQuestionsPerRound {
		return fmt.Errorf("в банке hr_questions %d вопросов, требуется минимум %d",
			len(config.HRQuestions), ic.HRQuestionsPerRound)
	}

	// Проверяем вопросы банка
	seen := make(map[string]struct{}, len(config.HRQuestions))
	for i, q := range config.HRQuestions {
		q = strings.TrimSpace(q)
		if q == "" {
			return fmt.Errorf("вопрос %d пустой", i+1)
		}
		if _, dup := seen[q]; dup {
			return fmt.Errorf("вопрос %d повторяется: %q", i+1, q)
		}
		seen[q] = struct{}{}
	}

	return nil
}
