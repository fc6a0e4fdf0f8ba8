package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"interview-coach/internal/interview"
	"interview-coach/internal/logging"
	"interview-coach/internal/storage"
)

const help = "Commands: 'record' (or 'r') to answer by voice, 'retry'/'accept' after a low score, 'quit' to exit."

const typedHelp = "Typed mode: type your answer and press Enter. 'retry'/'accept' after a low score, 'quit' to exit."

// ResultSaver сохраняет итог интервью
type ResultSaver interface {
	SaveResult(result *storage.InterviewResult) (string, error)
}

// EventPublisher отправляет событие о завершённом интервью
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Console проводит интервью в терминале: читает строки, отдаёт их машине и печатает ответы
type Console struct {
	machine   *interview.Machine
	in        io.Reader
	out       io.Writer
	typed     bool
	saver     ResultSaver
	publisher EventPublisher
	logger    zerolog.Logger

	// interruptible возвращает ctx, отменяемый по Ctrl-C на время записи
	interruptible func(ctx context.Context) (context.Context, context.CancelFunc)
	now           func() time.Time
	delivered     bool
}

type Options struct {
	Typed     bool
	Saver     ResultSaver
	Publisher EventPublisher
}

func New(machine *interview.Machine, in io.Reader, out io.Writer, opts Options) *Console {
	return &Console{
		machine:   machine,
		in:        in,
		out:       out,
		typed:     opts.Typed,
		saver:     opts.Saver,
		publisher: opts.Publisher,
		logger:    logging.WithComponent("console"),
		interruptible: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
		now: time.Now,
	}
}

// Run читает ввод до EOF, команды quit или отмены ctx
func (c *Console) Run(ctx context.Context) error {
	if c.typed {
		fmt.Fprintln(c.out, typedHelp)
	} else {
		fmt.Fprintln(c.out, help)
	}
	fmt.Fprintln(c.out, c.machine.Prompt())

	lines, scanErr, done := c.readLines()
	defer close(done)

	for {
		fmt.Fprint(c.out, "> ")

		var raw string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return <-scanErr
			}
			raw = l
		}

		line := strings.TrimSpace(raw)
		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}

		c.step(ctx, c.parse(line))
	}
}

// readLines читает ввод в отдельной горутине, чтобы Run мог завершиться по ctx,
// не дожидаясь следующей строки. Закрытие done освобождает горутину.
func (c *Console) readLines() (<-chan string, <-chan error, chan struct{}) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	return lines, scanErr, done
}

// parse переводит строку в событие машины с учётом текущего этапа
func (c *Console) parse(line string) interview.Input {
	stage := c.machine.Stage()
	if stage != interview.StageHRRound && stage != interview.StageTechRound {
		return interview.Text(line)
	}

	switch strings.ToLower(line) {
	case "record", "r":
		return interview.Record()
	case "retry":
		return interview.Retry()
	case "accept":
		return interview.Accept()
	}
	if c.typed && line != "" {
		return interview.Answer(line)
	}
	return interview.Text(line)
}

func (c *Console) step(ctx context.Context, in interview.Input) {
	turnCtx := ctx
	if in.Kind == interview.InputRecord {
		var stop context.CancelFunc
		turnCtx, stop = c.interruptible(ctx)
		defer stop()
		fmt.Fprintln(c.out, "🎙️ Recording... (Ctrl-C to cancel)")
	}

	out := c.machine.Handle(turnCtx, in)
	c.print(in, out)

	if out.Summary != nil && !c.delivered {
		c.deliver(ctx, out)
	}
}

// print выводит реплики бота; реплики пользователя только для распознанной речи
func (c *Console) print(in interview.Input, out interview.Outcome) {
	for _, msg := range out.Messages {
		if msg.FromUser {
			if in.Kind == interview.InputRecord {
				fmt.Fprintf(c.out, "🗣️ You said: %s\n", msg.Text)
			}
			continue
		}
		fmt.Fprintln(c.out, msg.Text)
	}
}

// deliver сохраняет и публикует результат один раз за сессию
func (c *Console) deliver(ctx context.Context, out interview.Outcome) {
	c.delivered = true
	result := storage.NewResult(c.machine.Session(), *out.Summary, out.Report, c.now())

	if c.saver != nil {
		path, err := c.saver.SaveResult(result)
		if err != nil {
			c.logger.Error().Err(err).Msg("Не удалось сохранить результат")
			fmt.Fprintf(c.out, "⚠️ Could not save results: %v\n", err)
		} else {
			c.logger.Info().Str("path", path).Msg("Результат сохранён")
			fmt.Fprintf(c.out, "💾 Results saved to %s\n", path)
		}
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, result.InterviewID, result); err != nil {
			c.logger.Error().Err(err).Msg("Не удалось опубликовать событие")
		}
	}
}
