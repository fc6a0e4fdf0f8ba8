// Package report агрегирует оценки обоих раундов и формирует итоговый текст отчёта.
package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"interview-coach/internal/logging"
)

var (
	ErrNoHRRecords   = errors.New("HR scores or confidence scores are missing")
	ErrNoTechRecords = errors.New("technical scores are missing")
)

// Пороги замечания об уверенности включают границу
const (
	confidentThreshold = 8
	moderateThreshold  = 5
)

const (
	RemarkConfident = "You appeared confident throughout the HR round."
	RemarkModerate  = "You showed moderate confidence. Try to be more assertive and clear."
	RemarkLow       = "Your confidence seemed low. Practice speaking clearly and confidently."
)

// HREntry - оценённый ответ HR-раунда; Confidence уже переведена в шкалу 0-10
type HREntry struct {
	Score      float64
	Confidence float64
	Feedback   string
}

// TechEntry - оценённый ответ технического раунда
type TechEntry struct {
	Score    float64
	Feedback string
}

type Input struct {
	HR   []HREntry
	Tech []TechEntry
}

// Summary содержит агрегированные показатели интервью
type Summary struct {
	AvgHRScore       float64  `json:"avg_hr_score"`
	AvgConfidence    float64  `json:"avg_confidence"`
	AvgTechScore     float64  `json:"avg_tech_score"`
	OverallScore     float64  `json:"overall_score"`
	ConfidenceRemark string   `json:"confidence_remark"`
	HRFeedback       []string `json:"hr_feedback"`
	TechFeedback     []string `json:"tech_feedback"`
}

// Aggregate считает средние значения. Пустой раунд - ошибка, а не деление на ноль.
func Aggregate(in Input) (Summary, error) {
	if len(in.HR) == 0 {
		return Summary{}, ErrNoHRRecords
	}
	if len(in.Tech) == 0 {
		return Summary{}, ErrNoTechRecords
	}

	var hrTotal, confTotal, techTotal float64
	s := Summary{
		HRFeedback:   make([]string, 0, len(in.HR)),
		TechFeedback: make([]string, 0, len(in.Tech)),
	}

	for _, e := range in.HR {
		hrTotal += e.Score
		confTotal += e.Confidence
		s.HRFeedback = append(s.HRFeedback, e.Feedback)
	}
	for _, e := range in.Tech {
		techTotal += e.Score
		s.TechFeedback = append(s.TechFeedback, e.Feedback)
	}

	s.AvgHRScore = round2(hrTotal / float64(len(in.HR)))
	s.AvgConfidence = round2(confTotal / float64(len(in.HR)))
	s.AvgTechScore = round2(techTotal / float64(len(in.Tech)))
	s.OverallScore = round2((s.AvgHRScore + s.AvgTechScore) / 2)
	s.ConfidenceRemark = ConfidenceRemark(s.AvgConfidence)

	return s, nil
}

// ConfidenceRemark выбирает замечание по средней уверенности
func ConfidenceRemark(avg float64) string {
	switch {
	case avg >= confidentThreshold:
		return RemarkConfident
	case avg >= moderateThreshold:
		return RemarkModerate
	default:
		return RemarkLow
	}
}

// Render форматирует отчёт. Вывод зависит только от Summary.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString("\n==== INTERVIEW PERFORMANCE REPORT ====\n\n")

	b.WriteString("🧑‍💼 HR ROUND:\n")
	b.WriteString(fmt.Sprintf("- Average HR Score: %s/10\n", FormatScore(s.AvgHRScore)))
	b.WriteString(fmt.Sprintf("- Confidence Level: %s/10\n", FormatScore(s.AvgConfidence)))
	b.WriteString("- Feedback:\n")
	b.WriteString(numbered(s.HRFeedback, "No HR feedback available."))
	b.WriteString("\n\n")

	b.WriteString("💻 TECHNICAL ROUND:\n")
	b.WriteString(fmt.Sprintf("- Average Technical Score: %s/10\n", FormatScore(s.AvgTechScore)))
	b.WriteString("- Feedback:\n")
	b.WriteString(numbered(s.TechFeedback, "No technical feedback available."))
	b.WriteString("\n\n")

	b.WriteString("📊 OVERALL PERFORMANCE:\n")
	b.WriteString(fmt.Sprintf("- Final Score: %s/10\n", FormatScore(s.OverallScore)))
	b.WriteString(fmt.Sprintf("- %s\n\n", s.ConfidenceRemark))

	b.WriteString("📌 Tips for Improvement:\n")
	b.WriteString("- Practice common interview questions to improve structure and clarity.\n")
	b.WriteString("- Strengthen your technical fundamentals in the predicted domain.\n")
	b.WriteString("- Improve confidence by doing more mock interviews.\n\n")
	b.WriteString("Good luck with your preparation! 🚀\n")

	return b.String()
}

// Generate всегда возвращает текст для пользователя: отчёт либо сообщение об ошибке
func Generate(in Input) (string, Summary, error) {
	logger := logging.WithComponent("report")
	logger.Info().Int("hrRecords", len(in.HR)).Int("techRecords", len(in.Tech)).Msg("Формирование отчёта")

	s, err := Aggregate(in)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка формирования отчёта")
		return ErrorText(err), Summary{}, err
	}

	logger.Info().
		Float64("avgHrScore", s.AvgHRScore).
		Float64("avgConfidence", s.AvgConfidence).
		Float64("avgTechScore", s.AvgTechScore).
		Float64("overallScore", s.OverallScore).
		Msg("Отчёт сформирован")

	return Render(s), s, nil
}

// ErrorText - видимое пользователю сообщение о невозможности построить отчёт
func ErrorText(err error) string {
	return fmt.Sprintf("⚠️ Error generating report: %v.", err)
}

// FormatScore печатает число с минимумом одного знака после точки: 7 -> "7.0", 8.6 -> "8.6"
func FormatScore(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

func numbered(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
