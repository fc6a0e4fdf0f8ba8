package interview

import "context"

// DomainDetector определяет домен по описанию вакансии
type DomainDetector interface {
	DetectDomain(ctx context.Context, jobDescription string) (string, error)
}

// QuestionBank выдаёт вопросы для обоих раундов
type QuestionBank interface {
	// SampleHR возвращает k разных вопросов из банка
	SampleHR(k int) []string
	// GenerateTechnical может вернуть меньше count вопросов
	GenerateTechnical(ctx context.Context, domain string, count int) ([]string, error)
}

// HROracle оценивает ответ HR-раунда
type HROracle interface {
	ScoreHR(ctx context.Context, question, transcript string) (HRScore, error)
}

// TechOracle оценивает технический ответ с учётом домена
type TechOracle interface {
	ScoreTechnical(ctx context.Context, question, transcript, domain string) (TechScore, error)
}

// Recorder записывает ответ с микрофона и возвращает расшифровку.
// Отмена ctx прерывает запись.
type Recorder interface {
	CaptureAndTranscribe(ctx context.Context, seconds int) (string, error)
}
