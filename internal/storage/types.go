package storage

import (
	"time"

	"interview-coach/internal/interview"
	"interview-coach/internal/report"
)

// InterviewResult представляет результат всего интервью
type InterviewResult struct {
	InterviewID    string         `json:"interview_id"`
	Timestamp      string         `json:"timestamp"`
	StartedAt      string         `json:"started_at"`
	JobDescription string         `json:"job_description"`
	Domain         string         `json:"domain"`
	HRRound        []QA           `json:"hr_round"`
	TechnicalRound []QA           `json:"technical_round"`
	Summary        report.Summary `json:"summary"`
	Report         string         `json:"report"`
}

// QA представляет один вопрос, ответ и его оценку
type QA struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
	Confidence string `json:"confidence,omitempty"`
}

// NewResult собирает результат из снимка сессии и построенного отчёта
func NewResult(s interview.Session, summary report.Summary, reportText string, now time.Time) *InterviewResult {
	result := &InterviewResult{
		InterviewID:    s.ID,
		Timestamp:      now.Format(time.RFC3339),
		StartedAt:      s.StartedAt.Format(time.RFC3339),
		JobDescription: s.JobDescription,
		Domain:         s.Domain,
		HRRound:        make([]QA, 0, len(s.HRRecords)),
		TechnicalRound: make([]QA, 0, len(s.TechRecords)),
		Summary:        summary,
		Report:         reportText,
	}

	for _, r := range s.HRRecords {
		result.HRRound = append(result.HRRound, QA{
			Question:   r.Question,
			Answer:     r.Transcript,
			Score:      r.Score,
			Feedback:   r.Feedback,
			Confidence: string(r.Confidence),
		})
	}
	for _, r := range s.TechRecords {
		result.TechnicalRound = append(result.TechnicalRound, QA{
			Question: r.Question,
			Answer:   r.Transcript,
			Score:    r.Score,
			Feedback: r.Feedback,
		})
	}
	return result
}
