package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-coach/internal/interview"
	"interview-coach/internal/metrics"
	"interview-coach/internal/storage"
)

type stubDetector struct{}

func (stubDetector) DetectDomain(ctx context.Context, jd string) (string, error) {
	return "Backend Development", nil
}

type stubBank struct{}

func (stubBank) SampleHR(k int) []string {
	return []string{"Tell me about yourself.", "Why this job?"}[:k]
}

func (stubBank) GenerateTechnical(ctx context.Context, domain string, count int) ([]string, error) {
	return []string{"What is a goroutine?", "What is a channel?"}, nil
}

type stubHR struct{}

func (stubHR) ScoreHR(ctx context.Context, q, t string) (interview.HRScore, error) {
	return interview.HRScore{Score: 7, Feedback: "solid", Confidence: interview.ConfidenceHigh}, nil
}

type stubTech struct{}

func (stubTech) ScoreTechnical(ctx context.Context, q, t, d string) (interview.TechScore, error) {
	return interview.TechScore{Score: 6, Feedback: "fine"}, nil
}

type stubRecorder struct {
	transcript string
	waitCancel bool
}

func (r *stubRecorder) CaptureAndTranscribe(ctx context.Context, seconds int) (string, error) {
	if r.waitCancel {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.transcript, nil
}

type fakeSaver struct {
	results []*storage.InterviewResult
	err     error
}

func (f *fakeSaver) SaveResult(result *storage.InterviewResult) (string, error) {
	f.results = append(f.results, result)
	return "results/interview_" + result.InterviewID + ".json", f.err
}

type fakePublisher struct {
	keys []string
}

func (f *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	f.keys = append(f.keys, key)
	return nil
}

func newMachine(recorder interview.Recorder) *interview.Machine {
	logger := zerolog.Nop()
	return interview.NewMachine(interview.Dependencies{
		Detector: stubDetector{},
		Bank:     stubBank{},
		HR:       stubHR{},
		Tech:     stubTech{},
		Recorder: recorder,
	}, interview.Options{
		HRQuestions:       2,
		TechQuestions:     2,
		LowScoreThreshold: 3,
		Logger:            &logger,
		Metrics:           metrics.Nop(),
	})
}

func TestTypedInterviewEndToEnd(t *testing.T) {
	script := strings.Join([]string{
		"Go developer with Kafka experience",
		"yes",
		"yes",
		"I build services.",
		"I like distributed systems.",
		"yes",
		"A lightweight thread.",
		"A typed pipe.",
		"show result",
		"show result",
		"quit",
	}, "\n") + "\n"

	var out bytes.Buffer
	saver := &fakeSaver{}
	publisher := &fakePublisher{}
	m := newMachine(nil)
	c := New(m, strings.NewReader(script), &out, Options{Typed: true, Saver: saver, Publisher: publisher})

	require.NoError(t, c.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, typedHelp)
	assert.Contains(t, text, "Predicted domain is: **Backend Development**")
	assert.Contains(t, text, "HR Q1: Tell me about yourself.")
	assert.Contains(t, text, "Tech Q2: What is a channel?")
	assert.Contains(t, text, "- Final Score: 6.5/10")
	assert.Contains(t, text, "💾 Results saved to results/interview_"+m.Session().ID+".json")
	assert.True(t, strings.HasSuffix(text, "Goodbye!\n"))
	assert.NotContains(t, text, "You said")

	require.Len(t, saver.results, 1)
	result := saver.results[0]
	assert.Equal(t, "Backend Development", result.Domain)
	assert.Len(t, result.HRRound, 2)
	assert.Len(t, result.TechnicalRound, 2)
	assert.Equal(t, 6.5, result.Summary.OverallScore)
	assert.Equal(t, []string{m.Session().ID}, publisher.keys)
}

func TestVoiceAnswerEchoesTranscript(t *testing.T) {
	script := "jd\nyes\nyes\nr\n"
	var out bytes.Buffer
	c := New(newMachine(&stubRecorder{transcript: "I am a backend engineer."}), strings.NewReader(script), &out, Options{})

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), help)
	assert.Contains(t, out.String(), "🎙️ Recording...")
	assert.Contains(t, out.String(), "🗣️ You said: I am a backend engineer.")
	assert.Contains(t, out.String(), "HR Q2: Why this job?")
}

func TestTextAnswerWithoutTypedModeIsReprompted(t *testing.T) {
	var out bytes.Buffer
	m := newMachine(&stubRecorder{transcript: "x"})
	c := New(m, strings.NewReader("jd\nyes\nyes\nsome words\n"), &out, Options{})

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 0, m.Session().HRIndex)
	assert.Equal(t, 2, strings.Count(out.String(), "HR Q1: Tell me about yourself."))
}

func TestRecordingCancelledByInterrupt(t *testing.T) {
	var out bytes.Buffer
	m := newMachine(&stubRecorder{waitCancel: true})
	c := New(m, strings.NewReader("jd\nyes\nyes\nrecord\n"), &out, Options{})
	c.interruptible = func(ctx context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		return ctx, cancel
	}

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Recording cancelled. HR Q1: Tell me about yourself.")
	assert.Equal(t, interview.StageHRRound, m.Stage())
	assert.Equal(t, 0, m.Session().HRIndex)
}

func TestParseMapsCommandsOnlyInRounds(t *testing.T) {
	m := newMachine(nil)
	c := New(m, strings.NewReader(""), &bytes.Buffer{}, Options{Typed: true})

	assert.Equal(t, interview.Text("record"), c.parse("record"))

	m.Handle(context.Background(), interview.Text("jd"))
	m.Handle(context.Background(), interview.Text("yes"))
	m.Handle(context.Background(), interview.Text("yes"))

	assert.Equal(t, interview.Record(), c.parse("R"))
	assert.Equal(t, interview.Retry(), c.parse("retry"))
	assert.Equal(t, interview.Accept(), c.parse("Accept"))
	assert.Equal(t, interview.Answer("my answer"), c.parse("my answer"))
	assert.Equal(t, interview.Text(""), c.parse(""))
}

func TestSaveFailureIsReported(t *testing.T) {
	script := "jd\nyes\nyes\na\nb\nyes\nc\nd\nshow result\n"
	var out bytes.Buffer
	c := New(newMachine(nil), strings.NewReader(script), &out, Options{Typed: true, Saver: &fakeSaver{err: errors.New("disk full")}})

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "⚠️ Could not save results: disk full")
}

func TestRunStopsOnCancelWithoutInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New(newMachine(nil), pr, &bytes.Buffer{}, Options{Typed: true})

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}
