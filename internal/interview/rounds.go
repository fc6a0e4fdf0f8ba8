package interview

import (
	"context"
	"fmt"
	"strings"

	"interview-coach/internal/metrics"
)

// Значения, которыми заменяются сбои внешних сервисов
const (
	hrFallbackFeedback     = "Error during evaluation."
	noFeedback             = "No feedback provided."
	failedQuestions        = "Failed to generate questions."
	emptyAnswerPlaceholder = "(no answer captured)"
)

func (m *Machine) handleHRRound(ctx context.Context, in Input) {
	s := m.session

	// Пока ответ с низкой оценкой ждёт решения, принимаются только retry/accept
	if s.Pending != nil {
		switch in.Kind {
		case InputRetry:
			m.retryPending()
		case InputAccept:
			m.acceptPending()
		default:
			m.reprompt(in)
		}
		return
	}

	if in.Kind != InputRecord && in.Kind != InputAnswer {
		m.reprompt(in)
		return
	}

	question := s.HRQuestions[s.HRIndex]
	transcript, ok := m.collectAnswer(ctx, in)
	if !ok {
		return
	}

	score := m.scoreHR(ctx, question, transcript)
	record := HRRecord{
		Question:   question,
		Transcript: transcript,
		Score:      score.Score,
		Feedback:   score.Feedback,
		Confidence: score.Confidence,
	}

	m.hearAnswer(transcript)
	m.say(fmt.Sprintf("✅ Feedback: %s (Score: %d/10)", record.Feedback, record.Score))

	if record.Score < m.opts.LowScoreThreshold {
		s.Pending = &record
		m.logger.Info().Int("hrIndex", s.HRIndex).Int("score", record.Score).Msg("Низкая оценка, ожидается решение retry/accept")
		m.say(m.lowScorePrompt())
		return
	}

	m.commitHR(record)
}

// retryPending отбрасывает ответ с низкой оценкой и повторяет тот же вопрос
func (m *Machine) retryPending() {
	m.session.Pending = nil
	m.metrics.RecordLowScoreDecision("retry")
	m.logger.Debug().Int("hrIndex", m.session.HRIndex).Msg("Повтор вопроса")
	m.say(m.Prompt())
}

// acceptPending принимает ответ с низкой оценкой как есть
func (m *Machine) acceptPending() {
	record := *m.session.Pending
	m.session.Pending = nil
	m.metrics.RecordLowScoreDecision("accept")
	m.commitHR(record)
}

func (m *Machine) commitHR(record HRRecord) {
	s := m.session
	s.HRRecords = append(s.HRRecords, record)
	s.HRIndex++
	m.metrics.RecordAnswer(metrics.RoundHR, record.Score)

	if s.HRIndex >= len(s.HRQuestions) {
		s.Stage = StageTechPrompt
		m.logger.Info().Int("answers", len(s.HRRecords)).Msg("HR-раунд завершён")
	}
	m.say(m.Prompt())
}

func (m *Machine) scoreHR(ctx context.Context, question, transcript string) HRScore {
	score, err := invoke(ctx, m.opts.OracleTimeout, func(ctx context.Context) (HRScore, error) {
		return m.deps.HR.ScoreHR(ctx, question, transcript)
	})
	m.metrics.IncrementOracleCall("hr_score", err == nil)
	if err != nil {
		m.logger.Error().Err(err).Str("question", question).Msg("Ошибка оценки HR-ответа")
		return HRScore{Score: 0, Feedback: hrFallbackFeedback, Confidence: ConfidenceLow}
	}

	score.Score = clampScore(score.Score)
	score.Confidence = ParseConfidence(string(score.Confidence))
	if strings.TrimSpace(score.Feedback) == "" {
		score.Feedback = noFeedback
	}
	return score
}

func (m *Machine) lowScorePrompt() string {
	return fmt.Sprintf("Your previous answer scored less than %d. Would you like to try again? (retry/accept)",
		m.opts.LowScoreThreshold)
}

func (m *Machine) handleTechPrompt(ctx context.Context, in Input) {
	switch m.command(in) {
	case cmdYes:
		m.hear(in.Text)
	case "":
		m.reprompt(in)
		return
	default:
		m.hear(in.Text)
		m.say("Okay, come back when you're ready.")
		return
	}

	s := m.session
	questions, err := invoke(ctx, m.opts.OracleTimeout, func(ctx context.Context) ([]string, error) {
		return m.deps.Bank.GenerateTechnical(ctx, s.Domain, m.opts.TechQuestions)
	})
	m.metrics.IncrementOracleCall("tech_generate", err == nil)

	// Раунд длится столько вопросов, сколько вернул банк
	switch {
	case err != nil:
		m.logger.Error().Err(err).Str("domain", s.Domain).Msg("Ошибка генерации технических вопросов")
		questions = []string{fmt.Sprintf("Error generating questions: %v", err)}
	case len(questions) == 0:
		m.logger.Warn().Str("domain", s.Domain).Msg("Банк не вернул технических вопросов")
		questions = []string{failedQuestions}
	case len(questions) > m.opts.TechQuestions:
		questions = questions[:m.opts.TechQuestions]
	}

	s.TechQuestions = append([]string(nil), questions...)
	s.TechIndex = 0
	s.TechRecords = nil
	s.Stage = StageTechRound
	m.logger.Info().Int("questions", len(s.TechQuestions)).Msg("Технический раунд начат")
	m.say(m.Prompt())
}

// handleTechRound принимает каждый ответ без повторов, независимо от оценки
func (m *Machine) handleTechRound(ctx context.Context, in Input) {
	if in.Kind != InputRecord && in.Kind != InputAnswer {
		m.reprompt(in)
		return
	}

	s := m.session
	question := s.TechQuestions[s.TechIndex]
	transcript, ok := m.collectAnswer(ctx, in)
	if !ok {
		return
	}

	score := m.scoreTechnical(ctx, question, transcript)
	s.TechRecords = append(s.TechRecords, TechRecord{
		Question:   question,
		Transcript: transcript,
		Score:      score.Score,
		Feedback:   score.Feedback,
	})
	s.TechIndex++
	m.metrics.RecordAnswer(metrics.RoundTechnical, score.Score)

	m.hearAnswer(transcript)
	m.say(fmt.Sprintf("✅ Feedback: %s (Score: %d/10)", score.Feedback, score.Score))

	if s.TechIndex >= len(s.TechQuestions) {
		s.Stage = StageResultWait
		m.logger.Info().Int("answers", len(s.TechRecords)).Msg("Технический раунд завершён")
	}
	m.say(m.Prompt())
}

func (m *Machine) scoreTechnical(ctx context.Context, question, transcript string) TechScore {
	domain := m.session.Domain
	score, err := invoke(ctx, m.opts.OracleTimeout, func(ctx context.Context) (TechScore, error) {
		return m.deps.Tech.ScoreTechnical(ctx, question, transcript, domain)
	})
	m.metrics.IncrementOracleCall("tech_score", err == nil)
	if err != nil {
		m.logger.Error().Err(err).Str("question", question).Msg("Ошибка оценки технического ответа")
		return TechScore{Score: 0, Feedback: fmt.Sprintf("Error evaluating technical answer: %v", err)}
	}

	score.Score = clampScore(score.Score)
	if strings.TrimSpace(score.Feedback) == "" {
		score.Feedback = noFeedback
	}
	return score
}

// collectAnswer возвращает расшифровку ответа. false - ответа нет и состояние
// менять нельзя (запись отменена или недоступна).
func (m *Machine) collectAnswer(ctx context.Context, in Input) (string, bool) {
	if in.Kind == InputAnswer {
		return strings.TrimSpace(in.Text), true
	}

	if m.deps.Recorder == nil {
		m.say("Recording is not available. Type your answer instead.")
		return "", false
	}

	transcript, err := m.deps.Recorder.CaptureAndTranscribe(ctx, m.opts.RecordingSeconds)
	if ctx.Err() != nil {
		m.logger.Info().Msg("Запись ответа отменена")
		m.turn.Cancelled = true
		m.say("Recording cancelled. " + m.Prompt())
		return "", false
	}
	m.metrics.IncrementOracleCall("transcribe", err == nil)
	if err != nil {
		m.logger.Error().Err(err).Msg("Ошибка записи или распознавания, ответ считается пустым")
		transcript = ""
	}
	return strings.TrimSpace(transcript), true
}

func (m *Machine) hearAnswer(transcript string) {
	if transcript == "" {
		transcript = emptyAnswerPlaceholder
	}
	m.hear(transcript)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
