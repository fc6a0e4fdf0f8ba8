package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"interview-coach/internal/audio"
	"interview-coach/internal/config"
	"interview-coach/internal/console"
	"interview-coach/internal/evaluator"
	"interview-coach/internal/events"
	"interview-coach/internal/interview"
	"interview-coach/internal/llm"
	"interview-coach/internal/logging"
	"interview-coach/internal/metrics"
	"interview-coach/internal/questions"
	"interview-coach/internal/storage"
	"interview-coach/internal/transcribe"
)

type flags struct {
	configPath string
	typed      bool
	seed       int64
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "interview-coach",
		Short:         "Mock interview coach: HR and technical rounds with AI feedback",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env необязателен: переменные могут прийти из окружения
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
			}
			app := config.LoadAppConfig()
			logging.Init(logging.Config{Level: app.Logging.Level, Format: app.Logging.Format})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(cmd.Context(), f)
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "config/interview.yaml", "path to interview config")
	rootCmd.Flags().BoolVar(&f.typed, "typed", false, "type answers instead of recording them")
	rootCmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for HR question sampling (0 = random)")

	rootCmd.AddCommand(newResultsCommand())
	return rootCmd
}

func runInterview(ctx context.Context, f *flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации интервью: %w", err)
	}
	app := config.LoadAppConfig()
	if err := app.LLM.ValidateConfig(); err != nil {
		return err
	}
	log.Info().Fields(app.LLM.GetModelInfo()).Msg("Языковая модель настроена")

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	if app.MetricsAddr != "" {
		go serveMetrics(app.MetricsAddr)
	}

	client := llm.NewClient(app.LLM)
	eval := evaluator.New(client)
	bank := questions.New(cfg.HRQuestions, client, f.seed)

	var recorder interview.Recorder
	if !f.typed {
		pipeline, closeFn, err := buildRecorder(ctx, app)
		if err != nil {
			log.Warn().Err(err).Msg("Запись голоса недоступна, переключаюсь на текстовые ответы")
			f.typed = true
		} else {
			defer closeFn()
			recorder = pipeline
		}
	}

	publisher := events.New(&events.Config{
		Brokers: app.Kafka.Brokers,
		Topic:   app.Kafka.Topic,
		Enabled: app.Kafka.Enabled,
	}, m)
	defer publisher.Close()

	machine := interview.NewMachine(interview.Dependencies{
		Detector: eval,
		Bank:     bank,
		HR:       eval,
		Tech:     eval,
		Recorder: recorder,
	}, interview.Options{
		HRQuestions:       cfg.GetHRQuestionsPerRound(),
		TechQuestions:     cfg.GetTechnicalQuestions(),
		LowScoreThreshold: cfg.GetLowScoreThreshold(),
		RecordingSeconds:  cfg.GetRecordingSeconds(),
		OracleTimeout:     app.LLM.Timeout,
		Scale: interview.ConfidenceScale{
			Low:    cfg.ConfidenceScale.Low,
			Medium: cfg.ConfidenceScale.Medium,
			High:   cfg.ConfidenceScale.High,
		},
		Metrics: m,
	})

	log.Info().
		Str("interviewId", machine.Session().ID).
		Int("hrQuestions", cfg.GetHRQuestionsPerRound()).
		Int("technicalQuestions", cfg.GetTechnicalQuestions()).
		Bool("typed", f.typed).
		Msg("Интервью начато")

	return console.New(machine, os.Stdin, os.Stdout, console.Options{
		Typed:     f.typed,
		Saver:     storage.NewStore(app.ResultsDir),
		Publisher: publisher,
	}).Run(ctx)
}

// buildRecorder собирает запись через ffmpeg и выбранный провайдер распознавания
func buildRecorder(ctx context.Context, app *config.AppConfig) (*transcribe.Pipeline, func(), error) {
	rec := audio.NewFFmpegRecorder(app.Audio)
	noop := func() {}

	switch app.STT.Provider {
	case "whisper":
		if app.STT.APIKey == "" {
			return nil, noop, errors.New("STT_API_KEY is required for whisper transcription")
		}
		return transcribe.NewPipeline(rec, transcribe.NewWhisper(app.STT), app.Audio.KeepRecordings), noop, nil
	case "google":
		g, err := transcribe.NewGoogle(ctx, app.STT.Language, rec.SampleRate())
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := g.Close(); err != nil {
				log.Error().Err(err).Msg("Ошибка закрытия клиента Speech-to-Text")
			}
		}
		return transcribe.NewPipeline(rec, g, app.Audio.KeepRecordings), closeFn, nil
	case "none", "":
		return nil, noop, errors.New("speech-to-text disabled")
	default:
		return nil, noop, fmt.Errorf("unknown STT_PROVIDER %q", app.STT.Provider)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("Метрики доступны на /metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Сервер метрик остановлен")
	}
}

func newResultsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "results [interview-id]",
		Short: "List saved interviews or print one report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = config.LoadAppConfig().ResultsDir
			}
			store := storage.NewStore(dir)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				result, err := store.LoadResult(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Interview %s (%s), domain: %s\n\n%s\n", result.InterviewID, result.Timestamp, result.Domain, result.Report)
				return nil
			}

			ids, err := store.ListResults()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, "No saved interviews.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "results directory (default RESULTS_DIR or results)")
	return cmd
}
