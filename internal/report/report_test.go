package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-coach/internal/logging"
)

func sampleInput() Input {
	hrScores := []float64{8, 6, 10, 7, 9}
	confidences := []float64{9, 7, 10, 8, 9}
	in := Input{}
	for i := range hrScores {
		in.HR = append(in.HR, HREntry{Score: hrScores[i], Confidence: confidences[i], Feedback: "hr feedback"})
	}
	for _, s := range []float64{5, 6, 7} {
		in.Tech = append(in.Tech, TechEntry{Score: s, Feedback: "tech feedback"})
	}
	return in
}

func TestAggregateScenario(t *testing.T) {
	s, err := Aggregate(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 8.0, s.AvgHRScore)
	assert.Equal(t, 8.6, s.AvgConfidence)
	assert.Equal(t, 6.0, s.AvgTechScore)
	assert.Equal(t, 7.0, s.OverallScore)
	assert.Equal(t, RemarkConfident, s.ConfidenceRemark)
}

func TestGenerateScenarioText(t *testing.T) {
	text, _, err := Generate(sampleInput())
	require.NoError(t, err)

	assert.Contains(t, text, "- Final Score: 7.0/10\n")
	assert.Contains(t, text, "- Average HR Score: 8.0/10\n")
	assert.Contains(t, text, "- Confidence Level: 8.6/10\n")
	assert.Contains(t, text, "- Average Technical Score: 6.0/10\n")
	assert.Contains(t, text, RemarkConfident)
	assert.NotContains(t, text, RemarkModerate)
	assert.NotContains(t, text, RemarkLow)
	assert.Contains(t, text, "1. hr feedback\n2. hr feedback")
	assert.Contains(t, text, "3. tech feedback\n\n")
}

func TestGenerateIsIdempotent(t *testing.T) {
	in := sampleInput()
	first, _, err := Generate(in)
	require.NoError(t, err)
	second, _, err := Generate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregatePreconditions(t *testing.T) {
	in := sampleInput()

	noHR := Input{Tech: in.Tech}
	text, _, err := Generate(noHR)
	assert.ErrorIs(t, err, ErrNoHRRecords)
	assert.True(t, strings.HasPrefix(text, "⚠️ Error generating report:"))

	noTech := Input{HR: in.HR}
	text, _, err = Generate(noTech)
	assert.ErrorIs(t, err, ErrNoTechRecords)
	assert.Contains(t, text, "technical scores are missing")
}

func TestConfidenceRemarkBoundaries(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{10, RemarkConfident},
		{8, RemarkConfident},
		{7.99, RemarkModerate},
		{5, RemarkModerate},
		{4.99, RemarkLow},
		{0, RemarkLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceRemark(tt.avg), "avg=%v", tt.avg)
	}
}

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	in := Input{
		HR:   []HREntry{{Score: 7, Confidence: 3}, {Score: 8, Confidence: 6}, {Score: 8, Confidence: 6}},
		Tech: []TechEntry{{Score: 1}, {Score: 2}, {Score: 2}},
	}
	s, err := Aggregate(in)
	require.NoError(t, err)

	assert.Equal(t, 7.67, s.AvgHRScore)
	assert.Equal(t, 5.0, s.AvgConfidence)
	assert.Equal(t, 1.67, s.AvgTechScore)
	assert.Equal(t, 4.67, s.OverallScore)
	assert.Equal(t, RemarkModerate, s.ConfidenceRemark)
}

func TestAggregateRoundsHalfToEven(t *testing.T) {
	in := Input{}
	for i := 0; i < 5; i++ {
		in.HR = append(in.HR, HREntry{Score: 5, Confidence: 5})
	}
	for _, s := range []float64{8, 8, 8, 8, 8, 8, 8, 9} {
		in.Tech = append(in.Tech, TechEntry{Score: s})
	}

	s, err := Aggregate(in)
	require.NoError(t, err)

	assert.Equal(t, 8.12, s.AvgTechScore)
	assert.Equal(t, 6.56, s.OverallScore)
}

func TestGenerateLogsWithReportComponent(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	logging.Setup(&buf, logging.Config{Level: "info", Format: "json"})

	_, _, err := Generate(sampleInput())
	require.NoError(t, err)

	first, _, _ := strings.Cut(buf.String(), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &entry))
	assert.Equal(t, "report", entry["component"])
}

func TestRenderEmptyFeedbackPlaceholder(t *testing.T) {
	text := Render(Summary{ConfidenceRemark: RemarkLow})

	assert.Contains(t, text, "No HR feedback available.")
	assert.Contains(t, text, "No technical feedback available.")
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "7.0", FormatScore(7))
	assert.Equal(t, "8.6", FormatScore(8.6))
	assert.Equal(t, "6.67", FormatScore(6.67))
	assert.Equal(t, "0.0", FormatScore(0))
}
