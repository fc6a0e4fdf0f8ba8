package interview

import "strings"

// Stage - этап интервью; в каждый момент активен ровно один
type Stage string

const (
	StageStart         Stage = "start"
	StageConfirmDomain Stage = "confirm_domain"
	StageStartHRPrompt Stage = "start_hr_prompt"
	StageHRRound       Stage = "hr_round"
	StageTechPrompt    Stage = "tech_prompt"
	StageTechRound     Stage = "tech_round"
	StageResultWait    Stage = "result_wait"
)

// ConfidenceLabel - оценка уверенности ответа HR-раунда по тону
type ConfidenceLabel string

const (
	ConfidenceLow    ConfidenceLabel = "Low"
	ConfidenceMedium ConfidenceLabel = "Medium"
	ConfidenceHigh   ConfidenceLabel = "High"
)

// ParseConfidence разбирает метку без учёта регистра; неизвестное значение - Low
func ParseConfidence(s string) ConfidenceLabel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ConfidenceScale переводит метки в числовую шкалу отчёта
type ConfidenceScale struct {
	Low    float64
	Medium float64
	High   float64
}

func (s ConfidenceScale) Value(label ConfidenceLabel) float64 {
	switch label {
	case ConfidenceHigh:
		return s.High
	case ConfidenceMedium:
		return s.Medium
	default:
		return s.Low
	}
}

// HRScore - ответ оценщика на HR-вопрос
type HRScore struct {
	Score      int
	Feedback   string
	Confidence ConfidenceLabel
}

// TechScore - ответ оценщика на технический вопрос
type TechScore struct {
	Score    int
	Feedback string
}

// HRRecord - принятый (или ожидающий решения) ответ HR-раунда
type HRRecord struct {
	Question   string          `json:"question"`
	Transcript string          `json:"transcript"`
	Score      int             `json:"score"`
	Feedback   string          `json:"feedback"`
	Confidence ConfidenceLabel `json:"confidence"`
}

// TechRecord - ответ технического раунда
type TechRecord struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
}

// ChatMessage - строка диалога, как её видит пользователь
type ChatMessage struct {
	FromUser bool   `json:"from_user"`
	Text     string `json:"text"`
}

// InputKind различает события, которые принимает машина состояний
type InputKind int

const (
	// InputText - свободный текст: описание вакансии, yes/no/recheck, "show result"
	InputText InputKind = iota
	// InputRecord - записать ответ с микрофона и распознать его
	InputRecord
	// InputAnswer - готовая расшифровка ответа (текстовый режим)
	InputAnswer
	// InputRetry - переответить вопрос после низкой оценки
	InputRetry
	// InputAccept - принять низкую оценку и идти дальше
	InputAccept
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputRecord:
		return "record"
	case InputAnswer:
		return "answer"
	case InputRetry:
		return "retry"
	case InputAccept:
		return "accept"
	default:
		return "unknown"
	}
}

type Input struct {
	Kind InputKind
	Text string
}

func Text(s string) Input   { return Input{Kind: InputText, Text: s} }
func Answer(s string) Input { return Input{Kind: InputAnswer, Text: s} }
func Record() Input         { return Input{Kind: InputRecord} }
func Retry() Input          { return Input{Kind: InputRetry} }
func Accept() Input         { return Input{Kind: InputAccept} }
