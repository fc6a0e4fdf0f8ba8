// Package logging настраивает zerolog для всего приложения.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config содержит настройки логирования
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Init инициализирует глобальный логгер. Логи пишутся в stderr,
// чтобы не смешиваться с диалогом интервью в stdout.
func Init(cfg Config) {
	Setup(os.Stderr, cfg)
}

// Setup настраивает глобальный логгер с произвольным выводом
func Setup(out io.Writer, cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithComponent возвращает логгер с тегом компонента
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// WithInterview возвращает логгер с контекстом интервью
func WithInterview(component, interviewID string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Str("interviewId", interviewID).
		Logger()
}
