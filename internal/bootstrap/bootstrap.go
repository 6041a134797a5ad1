// Package bootstrap provides dependency initialization for the emotion
// analysis service.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/unnamed8082/speech-emotion-analysis/internal/analysis"
	"github.com/unnamed8082/speech-emotion-analysis/internal/audio"
	"github.com/unnamed8082/speech-emotion-analysis/internal/chart"
	"github.com/unnamed8082/speech-emotion-analysis/internal/config"
	"github.com/unnamed8082/speech-emotion-analysis/internal/dsp"
	"github.com/unnamed8082/speech-emotion-analysis/internal/emotion"
	"github.com/unnamed8082/speech-emotion-analysis/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	AnalysisService *analysis.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)

	decoder := audio.NewClipDecoder(cfg.FFmpegPath, cfg.TargetSampleRate, cfg.MaxDurationSec)
	extractor := dsp.NewExtractor()
	scorer := emotion.NewScorer(emotion.DefaultConstants())
	renderer := chart.NewPNGRenderer()

	svc := analysis.NewService(
		decoder,
		extractor,
		scorer,
		renderer,
		store,
		logger,
		analysis.WithWaveformChart(cfg.ChartWaveform),
	)

	return &Dependencies{
		AnalysisService: svc,
	}, nil
}
