package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"interview-coach/internal/logging"
)

// ErrEmptyTranscript - распознавание прошло, но речи не найдено
var ErrEmptyTranscript = errors.New("no speech recognized")

// Transcriber переводит WAV-файл в текст
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// AudioRecorder записывает ответ в файл и возвращает путь к нему
type AudioRecorder interface {
	Record(ctx context.Context, seconds int) (string, error)
}

// Pipeline связывает запись и распознавание в один шаг ответа кандидата
type Pipeline struct {
	recorder    AudioRecorder
	transcriber Transcriber
	keepAudio   bool
	logger      zerolog.Logger
}

// NewPipeline создает конвейер запись -> расшифровка. keepAudio=false удаляет файл после распознавания.
func NewPipeline(recorder AudioRecorder, transcriber Transcriber, keepAudio bool) *Pipeline {
	return &Pipeline{
		recorder:    recorder,
		transcriber: transcriber,
		keepAudio:   keepAudio,
		logger:      logging.WithComponent("transcribe"),
	}
}

// CaptureAndTranscribe записывает seconds секунд и возвращает расшифровку
func (p *Pipeline) CaptureAndTranscribe(ctx context.Context, seconds int) (string, error) {
	path, err := p.recorder.Record(ctx, seconds)
	if err != nil {
		return "", fmt.Errorf("record answer: %w", err)
	}
	if !p.keepAudio {
		defer func() {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				p.logger.Warn().Err(err).Str("path", path).Msg("Не удалось удалить запись")
			}
		}()
	}

	text, err := p.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", path, err)
	}
	p.logger.Debug().Int("chars", len(text)).Msg("Ответ распознан")
	return text, nil
}
