package interview

import (
	"fmt"
	"time"
)

// Session - изменяемый контекст одного интервью
type Session struct {
	ID             string    `json:"interview_id"`
	StartedAt      time.Time `json:"started_at"`
	Stage          Stage     `json:"stage"`
	JobDescription string    `json:"job_description"`
	Domain         string    `json:"domain"`

	HRQuestions []string   `json:"hr_questions"`
	HRIndex     int        `json:"hr_index"`
	HRRecords   []HRRecord `json:"hr_records"`

	// Pending держит ответ с низкой оценкой до решения retry/accept
	Pending *HRRecord `json:"pending,omitempty"`

	TechQuestions []string     `json:"tech_questions"`
	TechIndex     int          `json:"tech_index"`
	TechRecords   []TechRecord `json:"tech_records"`

	History []ChatMessage `json:"history"`
}

// Snapshot возвращает глубокую копию сессии
func (s *Session) Snapshot() Session {
	out := *s
	out.HRQuestions = append([]string(nil), s.HRQuestions...)
	out.HRRecords = append([]HRRecord(nil), s.HRRecords...)
	out.TechQuestions = append([]string(nil), s.TechQuestions...)
	out.TechRecords = append([]TechRecord(nil), s.TechRecords...)
	out.History = append([]ChatMessage(nil), s.History...)
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// CurrentQuestion возвращает вопрос, ожидающий ответа в текущем раунде
func (s *Session) CurrentQuestion() (string, bool) {
	switch s.Stage {
	case StageHRRound:
		if s.HRIndex < len(s.HRQuestions) {
			return s.HRQuestions[s.HRIndex], true
		}
	case StageTechRound:
		if s.TechIndex < len(s.TechQuestions) {
			return s.TechQuestions[s.TechIndex], true
		}
	}
	return "", false
}

// verify проверяет инварианты индексов и записей
func (s *Session) verify() error {
	if s.HRIndex != len(s.HRRecords) {
		return fmt.Errorf("hrIndex %d не совпадает с числом HR-записей %d", s.HRIndex, len(s.HRRecords))
	}
	if s.HRIndex > len(s.HRQuestions) {
		return fmt.Errorf("hrIndex %d вышел за пределы %d вопросов", s.HRIndex, len(s.HRQuestions))
	}
	if s.TechIndex != len(s.TechRecords) {
		return fmt.Errorf("techIndex %d не совпадает с числом технических записей %d", s.TechIndex, len(s.TechRecords))
	}
	if s.TechIndex > len(s.TechQuestions) {
		return fmt.Errorf("techIndex %d вышел за пределы %d вопросов", s.TechIndex, len(s.TechQuestions))
	}
	if s.Pending != nil && s.Stage != StageHRRound {
		return fmt.Errorf("ожидающий ответ вне HR-раунда (этап %s)", s.Stage)
	}
	switch s.Stage {
	case StageTechPrompt, StageTechRound, StageResultWait:
		if len(s.HRQuestions) == 0 || s.HRIndex != len(s.HRQuestions) || s.Pending != nil {
			return fmt.Errorf("этап %s недостижим до завершения HR-раунда", s.Stage)
		}
	}
	if s.Stage == StageResultWait && s.TechIndex != len(s.TechQuestions) {
		return fmt.Errorf("этап %s недостижим до завершения технического раунда", s.Stage)
	}
	return nil
}
