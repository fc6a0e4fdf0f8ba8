package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"interview-coach/internal/metrics"
)

var errOracleDown = errors.New("oracle down")

type fakeDetector struct {
	domain string
	err    error
	calls  int
}

func (f *fakeDetector) DetectDomain(ctx context.Context, jd string) (string, error) {
	f.calls++
	return f.domain, f.err
}

type fakeBank struct {
	hr      []string
	tech    []string
	techErr error
	gotK    int
	gotN    int
}

func (f *fakeBank) SampleHR(k int) []string {
	f.gotK = k
	if k > len(f.hr) {
		k = len(f.hr)
	}
	return append([]string(nil), f.hr[:k]...)
}

func (f *fakeBank) GenerateTechnical(ctx context.Context, domain string, count int) ([]string, error) {
	f.gotN = count
	return f.tech, f.techErr
}

// fakeHROracle отдаёт оценки по очереди; после конца очереди - последнюю
type fakeHROracle struct {
	mu     sync.Mutex
	scores []HRScore
	err    error
	block  bool
	calls  int
}

func (f *fakeHROracle) ScoreHR(ctx context.Context, question, transcript string) (HRScore, error) {
	f.mu.Lock()
	f.calls++
	calls, block, err := f.calls, f.block, f.err
	f.mu.Unlock()

	if block {
		select {}
	}
	if err != nil {
		return HRScore{}, err
	}
	i := calls - 1
	if i >= len(f.scores) {
		i = len(f.scores) - 1
	}
	return f.scores[i], nil
}

type fakeTechOracle struct {
	scores    []int
	err       error
	calls     int
	gotDomain string
}

func (f *fakeTechOracle) ScoreTechnical(ctx context.Context, question, transcript, domain string) (TechScore, error) {
	f.calls++
	f.gotDomain = domain
	if f.err != nil {
		return TechScore{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.scores) {
		i = len(f.scores) - 1
	}
	return TechScore{Score: f.scores[i], Feedback: fmt.Sprintf("tech feedback %d", f.calls)}, nil
}

type fakeRecorder struct {
	transcript string
	err        error
	waitCancel bool
	gotSeconds int
}

func (f *fakeRecorder) CaptureAndTranscribe(ctx context.Context, seconds int) (string, error) {
	f.gotSeconds = seconds
	if f.waitCancel {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.transcript, f.err
}

type harness struct {
	detector *fakeDetector
	bank     *fakeBank
	hr       *fakeHROracle
	tech     *fakeTechOracle
	recorder *fakeRecorder
	metrics  *metrics.Metrics
	machine  *Machine
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	h := &harness{
		detector: &fakeDetector{domain: "Data Science"},
		bank: &fakeBank{
			hr:   []string{"HR one", "HR two", "HR three", "HR four", "HR five", "HR six"},
			tech: []string{"Tech one", "Tech two", "Tech three"},
		},
		hr:       &fakeHROracle{scores: []HRScore{{Score: 7, Feedback: "good", Confidence: ConfidenceHigh}}},
		tech:     &fakeTechOracle{scores: []int{6}},
		recorder: &fakeRecorder{transcript: "spoken answer"},
		metrics:  metrics.Nop(),
	}

	if opts.LowScoreThreshold == 0 {
		opts.LowScoreThreshold = DefaultOptions().LowScoreThreshold
	}
	logger := zerolog.Nop()
	opts.Logger = &logger
	opts.Metrics = h.metrics
	h.machine = NewMachine(Dependencies{
		Detector: h.detector,
		Bank:     h.bank,
		HR:       h.hr,
		Tech:     h.tech,
		Recorder: h.recorder,
	}, opts)
	return h
}

func (h *harness) send(t *testing.T, in Input) Outcome {
	t.Helper()
	out := h.machine.Handle(context.Background(), in)
	if err := h.machine.session.verify(); err != nil {
		t.Fatalf("invariant violated after %s: %v", in.Kind, err)
	}
	return out
}

// toHRRound проводит сессию до первого HR-вопроса
func (h *harness) toHRRound(t *testing.T) {
	t.Helper()
	h.send(t, Text("Looking for a data scientist with Python"))
	h.send(t, Text("yes"))
	h.send(t, Text("yes"))
	if h.machine.Stage() != StageHRRound {
		t.Fatalf("expected hr_round, got %s", h.machine.Stage())
	}
}

// toTechRound завершает HR-раунд и начинает технический
func (h *harness) toTechRound(t *testing.T) {
	t.Helper()
	h.toHRRound(t)
	for h.machine.Stage() == StageHRRound {
		h.send(t, Answer("my answer"))
		if h.machine.session.Pending != nil {
			h.send(t, Accept())
		}
	}
	h.send(t, Text("yes"))
	if h.machine.Stage() != StageTechRound {
		t.Fatalf("expected tech_round, got %s", h.machine.Stage())
	}
}
