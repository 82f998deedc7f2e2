package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen/cli/keystore"
	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/providers"
	"github.com/lumen-labs/lumen/server"
	"github.com/lumen-labs/lumen/vision"
	"github.com/lumen-labs/lumen/vision/detr"
	"github.com/lumen-labs/lumen/vision/tesseract"

	// Backend registration.
	_ "github.com/lumen-labs/lumen/providers/gemini"
	_ "github.com/lumen-labs/lumen/providers/ollama"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the description HTTP service",
	Long: `Run the HTTP service. Clients POST an image to /api/process and
receive the description as a server-sent event stream.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "listen address (default from config, then :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	addr := cfg.ListenAddr
	if listenFlag != "" {
		addr = listenFlag
	}

	handler := server.NewHandler(providerFromConfig, buildPreprocessor(logger), logger)
	srv := server.New(addr, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "provider", cfg.Provider)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// providerFromConfig resolves the configured generation backend, pulling
// credentials from the environment or the keystore.
func providerFromConfig() (core.Provider, error) {
	pcfg := providers.Config{}

	switch cfg.Provider {
	case "gemini":
		pcfg.APIKey = resolveGeminiKey()
		pcfg.BaseURL = cfg.Gemini.BaseURL
		pcfg.Model = cfg.Gemini.Model
	case "ollama":
		pcfg.BaseURL = cfg.Ollama.BaseURL
		pcfg.Model = cfg.Ollama.Model
	}

	return providers.Create(cfg.Provider, pcfg)
}

// resolveGeminiKey prefers the environment, then the keystore.
func resolveGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	ks, err := keystore.NewKeystore()
	if err != nil {
		return ""
	}
	key, err := ks.Get("gemini")
	if err != nil {
		return ""
	}
	return key
}

// buildPreprocessor wires the configured vision stages. Both stages are
// lazy: the detector client and the OCR engine are constructed on first
// use, so serving starts even when a stage is misconfigured.
func buildPreprocessor(logger *slog.Logger) server.Preprocessor {
	var detector vision.Detector
	var recognizer vision.Recognizer

	if cfg.DetectorURL != "" {
		url := cfg.DetectorURL
		detector = vision.NewLazyDetector(func() (vision.Detector, error) {
			return detr.New(url), nil
		})
	}
	if cfg.OCREnabled {
		recognizer = vision.NewLazyRecognizer(func() (vision.Recognizer, error) {
			return tesseract.New()
		})
	}

	if detector == nil && recognizer == nil {
		return nil
	}

	return &vision.Preprocessor{
		Detector:   detector,
		Recognizer: recognizer,
		Logger:     logger,
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
