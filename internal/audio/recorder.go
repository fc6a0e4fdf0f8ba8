package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"interview-coach/internal/config"
	"interview-coach/internal/logging"
)

// FFmpegRecorder записывает ответ с микрофона в WAV-файл через ffmpeg
type FFmpegRecorder struct {
	command     string
	inputFormat string
	inputDevice string
	sampleRate  int
	dir         string
	now         func() time.Time
	logger      zerolog.Logger
}

func NewFFmpegRecorder(cfg config.AudioConfig) *FFmpegRecorder {
	r := &FFmpegRecorder{
		command:     cfg.FFmpegCommand,
		inputFormat: cfg.InputFormat,
		inputDevice: cfg.InputDevice,
		sampleRate:  cfg.SampleRate,
		dir:         cfg.RecordingsDir,
		now:         time.Now,
		logger:      logging.WithComponent("audio"),
	}
	if r.command == "" {
		r.command = "ffmpeg"
	}
	if r.inputFormat == "" {
		r.inputFormat = "pulse"
	}
	if r.inputDevice == "" {
		r.inputDevice = "default"
	}
	if r.sampleRate <= 0 {
		r.sampleRate = 16000
	}
	if r.dir == "" {
		r.dir = "recordings"
	}
	return r
}

// SampleRate - частота дискретизации записанных файлов
func (r *FFmpegRecorder) SampleRate() int {
	return r.sampleRate
}

// Record пишет seconds секунд моно 16-bit PCM в recordings/response_<время>.wav.
// Отмена ctx останавливает ffmpeg и возвращает ctx.Err().
func (r *FFmpegRecorder) Record(ctx context.Context, seconds int) (string, error) {
	if seconds <= 0 {
		return "", fmt.Errorf("recording duration must be positive, got %d", seconds)
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", r.dir, err)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("response_%s.wav", r.now().Format("20060102_150405")))
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-y",
		"-f", r.inputFormat,
		"-i", r.inputDevice,
		"-t", strconv.Itoa(seconds),
		"-ac", "1",
		"-ar", strconv.Itoa(r.sampleRate),
		"-acodec", "pcm_s16le",
		path,
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	r.logger.Info().Int("seconds", seconds).Str("path", path).Msg("Запись ответа")
	err := cmd.Run()
	if ctx.Err() != nil {
		_ = os.Remove(path)
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("ffmpeg recording failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("ffmpeg produced no output file %s", path)
		}
		return "", err
	}
	return path, nil
}
