package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-coach/internal/interview"
	"interview-coach/internal/report"
)

func sampleSession() interview.Session {
	return interview.Session{
		ID:             "b7d3",
		StartedAt:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Stage:          interview.StageResultWait,
		JobDescription: "Python data scientist",
		Domain:         "Data Science",
		HRRecords: []interview.HRRecord{
			{Question: "Tell me about yourself.", Transcript: "I am...", Score: 8, Feedback: "clear", Confidence: interview.ConfidenceHigh},
		},
		TechRecords: []interview.TechRecord{
			{Question: "What is overfitting?", Transcript: "When...", Score: 6, Feedback: "ok"},
		},
	}
}

func TestNewResultFromSession(t *testing.T) {
	summary := report.Summary{AvgHRScore: 8, AvgTechScore: 6, OverallScore: 7}
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	r := NewResult(sampleSession(), summary, "report text", now)
	assert.Equal(t, "b7d3", r.InterviewID)
	assert.Equal(t, "2024-05-01T09:30:00Z", r.Timestamp)
	assert.Equal(t, "2024-05-01T09:00:00Z", r.StartedAt)
	assert.Equal(t, "Data Science", r.Domain)
	assert.Equal(t, []QA{{Question: "Tell me about yourself.", Answer: "I am...", Score: 8, Feedback: "clear", Confidence: "High"}}, r.HRRound)
	assert.Equal(t, []QA{{Question: "What is overfitting?", Answer: "When...", Score: 6, Feedback: "ok"}}, r.TechnicalRound)
	assert.Equal(t, 7.0, r.Summary.OverallScore)
	assert.Equal(t, "report text", r.Report)
}

func TestSaveLoadAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewStore(dir)

	ids, err := store.ListResults()
	require.NoError(t, err)
	assert.Empty(t, ids)

	first := NewResult(sampleSession(), report.Summary{OverallScore: 7}, "r", time.Now())
	path, err := store.SaveResult(first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "interview_b7d3.json"), path)

	second := NewResult(sampleSession(), report.Summary{}, "r", time.Now())
	second.InterviewID = "a1c9"
	_, err = store.SaveResult(second)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	ids, err = store.ListResults()
	require.NoError(t, err)
	assert.Equal(t, []string{"a1c9", "b7d3"}, ids)

	loaded, err := store.LoadResult("b7d3")
	require.NoError(t, err)
	assert.Equal(t, first, loaded)
}

func TestLoadResultErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.LoadResult("missing")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "interview_bad.json"), []byte("{"), 0o644))
	_, err = store.LoadResult("bad")
	assert.Error(t, err)
}

func TestSaveResultRequiresID(t *testing.T) {
	_, err := NewStore(t.TempDir()).SaveResult(&InterviewResult{})
	assert.Error(t, err)
}
