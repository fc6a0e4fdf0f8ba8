package config

// Config представляет конфигурацию интервью
type Config struct {
	InterviewConfig InterviewConfig `yaml:"interview_config"`
	ConfidenceScale ConfidenceScale `yaml:"confidence_scale"`
	HRQuestions     []string        `yaml:"hr_questions"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	HRQuestionsPerRound int `yaml:"hr_questions_per_round"`
	TechnicalQuestions  int `yaml:"technical_questions"`
	LowScoreThreshold   int `yaml:"low_score_threshold"`
	RecordingSeconds    int `yaml:"recording_seconds"`
}

// ConfidenceScale переводит метки уверенности в числовую шкалу 0-10
type ConfidenceScale struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// Default возвращает конфигурацию, совпадающую с config/interview.yaml
func Default() *Config {
	return &Config{
		InterviewConfig: InterviewConfig{
			HRQuestionsPerRound: 5,
			TechnicalQuestions:  10,
			LowScoreThreshold:   3,
			RecordingSeconds:    20,
		},
		ConfidenceScale: ConfidenceScale{Low: 3, Medium: 6, High: 9},
		HRQuestions: []string{
			"Tell me about yourself.",
			"Why do you want this job?",
			"What are your strengths and weaknesses?",
			"Where do you see yourself in 5 years?",
			"Why should we hire you?",
			"Tell me about a challenge you faced and how you overcame it.",
			"What are your salary expectations?",
			"Do you prefer working independently or in a team?",
			"What motivates you?",
			"How do you handle stress or pressure?",
		},
	}
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetHRQuestionsPerRound() int {
	return c.InterviewConfig.HRQuestionsPerRound
}

func (c *Config) GetTechnicalQuestions() int {
	return c.InterviewConfig.TechnicalQuestions
}

func (c *Config) GetLowScoreThreshold() int {
	return c.InterviewConfig.LowScoreThreshold
}

func (c *Config) GetRecordingSeconds() int {
	return c.InterviewConfig.RecordingSeconds
}
