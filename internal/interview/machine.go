package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-coach/internal/logging"
	"interview-coach/internal/metrics"
	"interview-coach/internal/report"
)

// Команды пользователя, сравниваются без учёта регистра
const (
	cmdYes        = "yes"
	cmdRecheck    = "recheck"
	cmdShowResult = "show result"
)

// Outcome - результат обработки одного ввода
type Outcome struct {
	From     Stage
	Stage    Stage
	Messages []ChatMessage
	// Report заполнен, когда пользователь запросил отчёт (текст ошибки тоже сюда)
	Report  string
	Summary *report.Summary
	// Cancelled - запись ответа отменена, сессия не изменилась
	Cancelled bool
}

// Dependencies - внешние сервисы, с которыми работает интервью
type Dependencies struct {
	Detector DomainDetector
	Bank     QuestionBank
	HR       HROracle
	Tech     TechOracle
	Recorder Recorder // nil в текстовом режиме
}

type Options struct {
	HRQuestions       int
	TechQuestions     int
	LowScoreThreshold int
	RecordingSeconds  int
	// OracleTimeout ограничивает каждый вызов модели; 0 - без ограничения
	OracleTimeout time.Duration
	Scale         ConfidenceScale
	Logger        *zerolog.Logger
	Metrics       *metrics.Metrics
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		HRQuestions:       5,
		TechQuestions:     10,
		LowScoreThreshold: 3,
		RecordingSeconds:  20,
		OracleTimeout:     60 * time.Second,
		Scale:             ConfidenceScale{Low: 3, Medium: 6, High: 9},
	}
}

// Machine ведёт одну сессию интервью. Ввод обрабатывается строго по одному.
type Machine struct {
	deps     Dependencies
	opts     Options
	session  *Session
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	reported bool

	turn *Outcome
}

// NewMachine создает машину состояний с новой сессией на этапе Start
func NewMachine(deps Dependencies, opts Options) *Machine {
	defaults := DefaultOptions()
	if opts.HRQuestions <= 0 {
		opts.HRQuestions = defaults.HRQuestions
	}
	if opts.TechQuestions <= 0 {
		opts.TechQuestions = defaults.TechQuestions
	}
	if opts.RecordingSeconds <= 0 {
		opts.RecordingSeconds = defaults.RecordingSeconds
	}
	if opts.Scale == (ConfidenceScale{}) {
		opts.Scale = defaults.Scale
	}

	session := &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Stage:     StageStart,
	}

	m := &Machine{
		deps:    deps,
		opts:    opts,
		session: session,
		metrics: opts.Metrics,
	}
	if opts.Logger != nil {
		m.logger = opts.Logger.With().Str("interviewId", session.ID).Logger()
	} else {
		m.logger = logging.WithInterview("interview", session.ID)
	}
	if m.metrics == nil {
		m.metrics = metrics.Nop()
	}
	return m
}

// Session возвращает копию текущего состояния
func (m *Machine) Session() Session {
	return m.session.Snapshot()
}

func (m *Machine) Stage() Stage {
	return m.session.Stage
}

// Handle обрабатывает один ввод пользователя. Ошибки внешних сервисов
// заменяются значениями по умолчанию и наружу не выходят.
func (m *Machine) Handle(ctx context.Context, in Input) Outcome {
	out := Outcome{From: m.session.Stage}
	m.turn = &out
	defer func() { m.turn = nil }()

	switch m.session.Stage {
	case StageStart:
		m.handleStart(ctx, in)
	case StageConfirmDomain:
		m.handleConfirmDomain(in)
	case StageStartHRPrompt:
		m.handleStartHRPrompt(in)
	case StageHRRound:
		m.handleHRRound(ctx, in)
	case StageTechPrompt:
		m.handleTechPrompt(ctx, in)
	case StageTechRound:
		m.handleTechRound(ctx, in)
	case StageResultWait:
		m.handleResultWait(in)
	}

	out.Stage = m.session.Stage
	if out.From != out.Stage {
		m.logger.Debug().
			Str("from", string(out.From)).
			Str("to", string(out.Stage)).
			Str("input", in.Kind.String()).
			Msg("Переход между этапами")
	}
	if err := m.session.verify(); err != nil {
		m.logger.Error().Err(err).Msg("Нарушен инвариант сессии")
	}
	return out
}

// Prompt возвращает приглашение текущего этапа
func (m *Machine) Prompt() string {
	s := m.session
	switch s.Stage {
	case StageStart:
		return "Paste Job Description here:"
	case StageConfirmDomain:
		return fmt.Sprintf("Predicted domain is: **%s**. Is this correct? (yes/recheck)", s.Domain)
	case StageStartHRPrompt:
		return "Shall we start the HR round? (yes/no)"
	case StageHRRound:
		if s.Pending != nil {
			return m.lowScorePrompt()
		}
		return fmt.Sprintf("HR Q%d: %s", s.HRIndex+1, s.HRQuestions[s.HRIndex])
	case StageTechPrompt:
		return "HR round done! Ready for technical round? (yes/no)"
	case StageTechRound:
		return fmt.Sprintf("Tech Q%d: %s", s.TechIndex+1, s.TechQuestions[s.TechIndex])
	case StageResultWait:
		return "Interview complete. Type 'show result' to see your report."
	}
	return ""
}

func (m *Machine) handleStart(ctx context.Context, in Input) {
	jd := strings.TrimSpace(in.Text)
	if in.Kind != InputText || jd == "" {
		m.reprompt(in)
		return
	}

	s := m.session
	s.JobDescription = jd
	m.hear(jd)

	domain, err := invoke(ctx, m.opts.OracleTimeout, func(ctx context.Context) (string, error) {
		return m.deps.Detector.DetectDomain(ctx, jd)
	})
	domain = strings.TrimSpace(domain)
	if err == nil && domain == "" {
		err = fmt.Errorf("пустая метка домена")
	}
	m.metrics.IncrementOracleCall("domain", err == nil)
	if err != nil {
		m.logger.Error().Err(err).Msg("Ошибка определения домена")
		m.say("Could not identify the domain. Please paste the job description again.")
		return
	}

	s.Domain = domain
	s.Stage = StageConfirmDomain
	m.logger.Info().Str("domain", domain).Msg("Домен определён")
	m.say(m.Prompt())
}

func (m *Machine) handleConfirmDomain(in Input) {
	switch m.command(in) {
	case cmdYes:
		m.hear(in.Text)
		m.session.Stage = StageStartHRPrompt
		m.say(m.Prompt())
	case cmdRecheck:
		m.hear(in.Text)
		m.session.Domain = ""
		m.session.Stage = StageStart
		m.say("Okay, let's recheck. " + m.Prompt())
	default:
		m.reprompt(in)
	}
}

func (m *Machine) handleStartHRPrompt(in Input) {
	switch m.command(in) {
	case cmdYes:
		m.hear(in.Text)
		questions := m.deps.Bank.SampleHR(m.opts.HRQuestions)
		if len(questions) == 0 {
			m.logger.Error().Msg("Банк HR-вопросов пуст")
			m.say("No HR questions are available. Check the interview configuration.")
			return
		}

		s := m.session
		s.HRQuestions = questions
		s.HRIndex = 0
		s.HRRecords = nil
		s.Pending = nil
		s.Stage = StageHRRound
		m.metrics.IncrementInterviewsStarted()
		m.logger.Info().Int("questions", len(questions)).Msg("HR-раунд начат")
		m.say(m.Prompt())
	case "":
		m.reprompt(in)
	default:
		m.hear(in.Text)
		m.say("Okay, come back when you're ready.")
	}
}

func (m *Machine) handleResultWait(in Input) {
	if m.command(in) != cmdShowResult {
		m.reprompt(in)
		return
	}
	m.hear(in.Text)

	text, summary, err := report.Generate(m.reportInput())
	m.turn.Report = text
	if err != nil {
		m.metrics.IncrementReportsFailed()
		m.logger.Error().Err(err).Msg("Отчёт не построен")
	} else {
		m.turn.Summary = &summary
		if !m.reported {
			m.reported = true
			m.metrics.IncrementInterviewsCompleted()
		}
	}
	m.say(text)
}

// reportInput переводит записи раундов во вход агрегатора
func (m *Machine) reportInput() report.Input {
	s := m.session
	in := report.Input{
		HR:   make([]report.HREntry, 0, len(s.HRRecords)),
		Tech: make([]report.TechEntry, 0, len(s.TechRecords)),
	}
	for _, r := range s.HRRecords {
		in.HR = append(in.HR, report.HREntry{
			Score:      float64(r.Score),
			Confidence: m.opts.Scale.Value(r.Confidence),
			Feedback:   r.Feedback,
		})
	}
	for _, r := range s.TechRecords {
		in.Tech = append(in.Tech, report.TechEntry{Score: float64(r.Score), Feedback: r.Feedback})
	}
	return in
}

// command возвращает нормализованный текстовый ввод или "" для остальных событий
func (m *Machine) command(in Input) string {
	if in.Kind != InputText {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(in.Text))
}

// reprompt повторяет приглашение этапа, не меняя состояние
func (m *Machine) reprompt(in Input) {
	if in.Kind == InputText && strings.TrimSpace(in.Text) != "" {
		m.hear(strings.TrimSpace(in.Text))
	}
	m.say(m.Prompt())
}

func (m *Machine) say(text string) {
	m.emit(ChatMessage{FromUser: false, Text: text})
}

func (m *Machine) hear(text string) {
	m.emit(ChatMessage{FromUser: true, Text: strings.TrimSpace(text)})
}

func (m *Machine) emit(msg ChatMessage) {
	m.session.History = append(m.session.History, msg)
	if m.turn != nil {
		m.turn.Messages = append(m.turn.Messages, msg)
	}
}

// invoke вызывает внешний сервис с ограничением по времени. Сервис,
// игнорирующий ctx, всё равно прерывается по истечении timeout.
func invoke[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
