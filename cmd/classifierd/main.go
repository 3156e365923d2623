package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/config"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/httpapi"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/manager"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/registry"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath      string
		addr         string
		modelsDir    string
		defaultModel string
		threshold    float64
		maxTextLen   int
		logLevel     string
		corsOrigins  string
	)

	cmd := &cobra.Command{
		Use:           "classifierd",
		Short:         "Multi-model text classification inference server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if cfgPath != "" {
				var err error
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			}
			// Explicit flags win over the config file; config wins over
			// built-in defaults.
			if !cmd.Flags().Changed("addr") && cfg.Addr != "" {
				addr = cfg.Addr
			}
			if !cmd.Flags().Changed("models-dir") && cfg.ModelsDir != "" {
				modelsDir = cfg.ModelsDir
			}
			if !cmd.Flags().Changed("default-model") && cfg.DefaultModel != "" {
				defaultModel = cfg.DefaultModel
			}
			if !cmd.Flags().Changed("threshold") && cfg.Threshold > 0 {
				threshold = cfg.Threshold
			}
			if !cmd.Flags().Changed("max-text-len") && cfg.MaxTextLen > 0 {
				maxTextLen = cfg.MaxTextLen
			}
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				logLevel = cfg.LogLevel
			}
			return run(addr, modelsDir, defaultModel, threshold, maxTextLen, logLevel, corsOrigins, cfg.Models)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", envStr("CLASSIFIERD_CONFIG", ""), "Optional config file (.yaml/.json/.toml)")
	f.StringVar(&addr, "addr", envStr("CLASSIFIERD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	f.StringVar(&modelsDir, "models-dir", envStr("CLASSIFIERD_MODELS_DIR", "models"), "Root directory of model artifacts")
	f.StringVar(&defaultModel, "default-model", envStr("CLASSIFIERD_DEFAULT_MODEL", "distilbert"), "Model id to load at startup (empty disables)")
	f.Float64Var(&threshold, "threshold", envFloat("CLASSIFIERD_THRESHOLD", 0.5), "Multi-label decision threshold")
	f.IntVar(&maxTextLen, "max-text-len", envInt("CLASSIFIERD_MAX_TEXT_LEN", 10000), "Maximum accepted text length in bytes (0 disables)")
	f.StringVar(&logLevel, "log-level", envStr("CLASSIFIERD_LOG_LEVEL", "info"), "Log level: debug, info, error, off")
	f.StringVar(&corsOrigins, "cors-origins", envStr("CLASSIFIERD_CORS_ORIGINS", "*"), "Comma-separated CORS origins (empty disables CORS)")
	return cmd
}

func run(addr, modelsDir, defaultModel string, threshold float64, maxTextLen int, logLevel, corsOrigins string, extraModels []types.ModelDescriptor) error {
	logger := newLogger(logLevel)
	httpapi.SetLogger(logger)
	httpapi.SetMaxTextLen(maxTextLen)
	if origins := splitCSV(corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Accept", "Content-Type", "X-Log-Level"})
	}

	reg, err := registry.New(registry.DefaultCatalog(modelsDir), extraModels)
	if err != nil {
		return err
	}
	mgr := manager.New(manager.Config{Registry: reg, Threshold: threshold})
	defer mgr.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	// Eager startup load. A missing or broken default model leaves the
	// server up but unloaded; /predict answers 503 until a switch succeeds.
	if defaultModel != "" {
		if err := mgr.Load(baseCtx, defaultModel); err != nil {
			logger.Warn().Err(err).Str("model", defaultModel).Msg("startup load failed, serving unloaded")
		} else {
			logger.Info().Str("model", defaultModel).Msg("startup load ok")
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("models_dir", modelsDir).Msg("classifierd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "error":
		lvl = zerolog.ErrorLevel
	case "off":
		lvl = zerolog.Disabled
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty items.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
