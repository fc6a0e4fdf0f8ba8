package evaluator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"interview-coach/internal/interview"
	"interview-coach/internal/llm"
	"interview-coach/internal/logging"
	"interview-coach/internal/prompts"
)

// DefaultFeedback подставляется, если модель не вернула строку Feedback
const DefaultFeedback = "No feedback provided."

var (
	hrScorePattern      = regexp.MustCompile(`(?im)^\s*Score:\s*(\d+)`)
	hrFeedbackPattern   = regexp.MustCompile(`(?im)^\s*Feedback:[ \t]*(.+)$`)
	hrConfidencePattern = regexp.MustCompile(`(?im)^\s*Confidence Level:\s*(Low|Medium|High)`)

	techScorePattern    = regexp.MustCompile(`(?i)Score:\s*(\d+)\s*/\s*10`)
	techFeedbackPattern = regexp.MustCompile(`(?is)Feedback:\s*(.+)`)
)

// Evaluator оценивает ответы кандидата и определяет домен вакансии через языковую модель
type Evaluator struct {
	client llm.Completer
	logger zerolog.Logger
}

// New создает оценщик поверх клиента модели
func New(client llm.Completer) *Evaluator {
	return &Evaluator{
		client: client,
		logger: logging.WithComponent("evaluator"),
	}
}

// DetectDomain возвращает короткую метку домена по описанию вакансии
func (e *Evaluator) DetectDomain(ctx context.Context, jobDescription string) (string, error) {
	content, err := e.client.Complete(ctx, prompts.DomainSystem, prompts.GenerateDomainPrompt(jobDescription))
	if err != nil {
		return "", fmt.Errorf("detect domain: %w", err)
	}

	domain := cleanLabel(content)
	if domain == "" {
		return "", errors.New("detect domain: empty label")
	}
	e.logger.Debug().Str("domain", domain).Msg("Домен определён моделью")
	return domain, nil
}

// ScoreHR оценивает ответ на HR-вопрос: балл, отзыв и уверенность
func (e *Evaluator) ScoreHR(ctx context.Context, question, transcript string) (interview.HRScore, error) {
	content, err := e.client.Complete(ctx, prompts.HRSystem, prompts.GenerateHREvaluationPrompt(question, transcript))
	if err != nil {
		return interview.HRScore{}, fmt.Errorf("score hr answer: %w", err)
	}

	score := ParseHR(content)
	e.logger.Debug().Int("score", score.Score).Str("confidence", string(score.Confidence)).Msg("HR-ответ оценён")
	return score, nil
}

// ScoreTechnical оценивает технический ответ с учётом домена
func (e *Evaluator) ScoreTechnical(ctx context.Context, question, transcript, domain string) (interview.TechScore, error) {
	content, err := e.client.Complete(ctx, prompts.TechEvaluationSystem,
		prompts.GenerateTechnicalEvaluationPrompt(question, transcript, domain))
	if err != nil {
		return interview.TechScore{}, fmt.Errorf("score technical answer: %w", err)
	}

	score := ParseTechnical(content)
	e.logger.Debug().Int("score", score.Score).Msg("Технический ответ оценён")
	return score, nil
}

// ParseHR разбирает ответ формата Score / Feedback / Confidence Level.
// Отсутствующие поля заменяются на 0, DefaultFeedback и Low.
func ParseHR(content string) interview.HRScore {
	out := interview.HRScore{
		Score:      firstInt(hrScorePattern, content),
		Feedback:   DefaultFeedback,
		Confidence: interview.ConfidenceLow,
	}
	if m := hrFeedbackPattern.FindStringSubmatch(content); m != nil {
		if fb := strings.TrimSpace(m[1]); fb != "" {
			out.Feedback = fb
		}
	}
	if m := hrConfidencePattern.FindStringSubmatch(content); m != nil {
		out.Confidence = interview.ParseConfidence(m[1])
	}
	return out
}

// ParseTechnical разбирает ответ формата "Score: N/10" и Feedback до конца текста
func ParseTechnical(content string) interview.TechScore {
	out := interview.TechScore{
		Score:    firstInt(techScorePattern, content),
		Feedback: DefaultFeedback,
	}
	if m := techFeedbackPattern.FindStringSubmatch(content); m != nil {
		if fb := strings.TrimSpace(m[1]); fb != "" {
			out.Feedback = fb
		}
	}
	return out
}

func firstInt(re *regexp.Regexp, content string) int {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// cleanLabel оставляет первую строку ответа без кавычек и точки в конце
func cleanLabel(content string) string {
	line := strings.TrimSpace(content)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimPrefix(strings.TrimSpace(line), "Domain:")
	return strings.Trim(strings.TrimSpace(line), "\"'*.`")
}
