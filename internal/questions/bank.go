package questions

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"interview-coach/internal/llm"
	"interview-coach/internal/logging"
	"interview-coach/internal/prompts"
)

// ErrNoQuestions - модель ответила, но в ответе нет ни одного нумерованного вопроса
var ErrNoQuestions = errors.New("no numbered questions in model response")

var numberedLine = regexp.MustCompile(`^\s*\d+\.\s*(.*)$`)

// Bank выдаёт HR-вопросы из фиксированного списка и генерирует технические через модель
type Bank struct {
	hr     []string
	client llm.Completer
	logger zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New создает банк вопросов. seed == 0 - случайное зерно.
func New(hr []string, client llm.Completer, seed int64) *Bank {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Bank{
		hr:     append([]string(nil), hr...),
		client: client,
		logger: logging.WithComponent("questions"),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SampleHR возвращает k разных вопросов. Если банк меньше k, возвращает весь банк в случайном порядке.
func (b *Bank) SampleHR(k int) []string {
	if k <= 0 {
		return nil
	}

	b.mu.Lock()
	perm := b.rng.Perm(len(b.hr))
	b.mu.Unlock()

	if k > len(perm) {
		b.logger.Warn().Int("requested", k).Int("available", len(perm)).Msg("В банке меньше вопросов, чем запрошено")
		k = len(perm)
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = b.hr[perm[i]]
	}
	return out
}

// GenerateTechnical просит модель составить count вопросов по домену
func (b *Bank) GenerateTechnical(ctx context.Context, domain string, count int) ([]string, error) {
	if b.client == nil {
		return nil, errors.New("language model client is not configured")
	}

	content, err := b.client.Complete(ctx, prompts.TechGenerationSystem, prompts.GenerateTechnicalQuestionsPrompt(domain, count))
	if err != nil {
		return nil, fmt.Errorf("generate technical questions: %w", err)
	}

	questions := ParseNumbered(content)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(questions) > count {
		questions = questions[:count]
	}

	b.logger.Debug().Str("domain", domain).Int("questions", len(questions)).Msg("Технические вопросы сгенерированы")
	return questions, nil
}

// ParseNumbered достаёт строки вида "N. текст" и отрезает номер
func ParseNumbered(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if q := strings.TrimSpace(m[1]); q != "" {
			out = append(out, q)
		}
	}
	return out
}
