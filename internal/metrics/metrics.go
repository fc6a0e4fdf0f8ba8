package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "interview_coach"

// Round обозначает раунд интервью в метках
const (
	RoundHR        = "hr"
	RoundTechnical = "technical"
)

type Metrics struct {
	InterviewsStarted   prometheus.Counter
	InterviewsCompleted prometheus.Counter
	ReportsFailed       prometheus.Counter
	AnswersRecorded     *prometheus.CounterVec
	LowScoreDecisions   *prometheus.CounterVec
	OracleCalls         *prometheus.CounterVec
	AnswerScores        *prometheus.HistogramVec
	EventsPublished     *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в переданном реестре
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InterviewsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_started_total",
			Help:      "Interviews that reached the HR round",
		}),
		InterviewsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Interviews with a generated report",
		}),
		ReportsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_failed_total",
			Help:      "Report generations rejected by aggregation preconditions",
		}),
		AnswersRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_recorded_total",
			Help:      "Answers committed to a round",
		}, []string{"round"}),
		LowScoreDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_score_decisions_total",
			Help:      "Retry/accept decisions on low-scoring HR answers",
		}, []string{"decision"}),
		OracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Calls to external collaborators by kind and outcome",
		}, []string{"kind", "outcome"}),
		AnswerScores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_score",
			Help:      "Scores returned by the evaluator",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		}, []string{"round"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Interview events handed to the broker (or logged when disabled)",
		}, []string{"topic", "outcome"}),
	}
}

// Nop возвращает метрики в собственном реестре, никуда не экспортируемом
func Nop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) IncrementInterviewsStarted() {
	m.InterviewsStarted.Inc()
}

func (m *Metrics) IncrementInterviewsCompleted() {
	m.InterviewsCompleted.Inc()
}

func (m *Metrics) IncrementReportsFailed() {
	m.ReportsFailed.Inc()
}

// RecordAnswer фиксирует принятый ответ и его оценку
func (m *Metrics) RecordAnswer(round string, score int) {
	m.AnswersRecorded.WithLabelValues(round).Inc()
	m.AnswerScores.WithLabelValues(round).Observe(float64(score))
}

func (m *Metrics) RecordLowScoreDecision(decision string) {
	m.LowScoreDecisions.WithLabelValues(decision).Inc()
}

// IncrementOracleCall учитывает вызов внешнего сервиса
func (m *Metrics) IncrementOracleCall(kind string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.OracleCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordEventPublish(topic string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.EventsPublished.WithLabelValues(topic, outcome).Inc()
}
