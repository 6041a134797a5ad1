// Package analysis provides the per-request use case: take an uploaded audio
// payload, decode it, extract signal statistics, score emotions and render
// charts. The whole lifecycle is a single synchronous call; no state survives
// the request.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/unnamed8082/speech-emotion-analysis/internal/audio"
	"github.com/unnamed8082/speech-emotion-analysis/internal/chart"
	"github.com/unnamed8082/speech-emotion-analysis/internal/dsp"
	"github.com/unnamed8082/speech-emotion-analysis/internal/emotion"
	"github.com/unnamed8082/speech-emotion-analysis/internal/storage"
)

// Result is the complete outcome of analyzing one clip.
type Result struct {
	// Risk is the scored assessment.
	Risk emotion.RiskAssessment
	// ChartPNG is the rendered emotion bar chart. Empty when rendering
	// failed; a missing chart never fails the analysis.
	ChartPNG []byte
	// WaveformPNG is the rendered waveform trace when enabled.
	WaveformPNG []byte
}

// Service orchestrates the analysis workflow.
type Service struct {
	decoder   audio.Decoder
	extractor *dsp.Extractor
	scorer    *emotion.Scorer
	renderer  chart.Renderer
	store     storage.Storage
	logger    *slog.Logger

	renderWaveform bool
}

// Option configures a Service.
type Option func(*Service)

// WithWaveformChart enables rendering the waveform trace alongside the
// emotion chart.
func WithWaveformChart(enabled bool) Option {
	return func(s *Service) {
		s.renderWaveform = enabled
	}
}

// NewService creates a Service from its collaborators.
func NewService(
	decoder audio.Decoder,
	extractor *dsp.Extractor,
	scorer *emotion.Scorer,
	renderer chart.Renderer,
	store storage.Storage,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		decoder:   decoder,
		extractor: extractor,
		scorer:    scorer,
		renderer:  renderer,
		store:     store,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the complete workflow for one uploaded payload:
//
//  1. Save the payload to a unique scratch file.
//  2. Decode it to mono PCM at the target rate.
//  3. Extract the RMS/ZCR/centroid statistics.
//  4. Score emotions and conflict risk.
//  5. Render charts.
//
// The scratch file is removed on every path out of this function.
func (s *Service) Analyze(ctx context.Context, filename string, data io.Reader) (*Result, error) {
	path, err := s.store.SaveTemp(ctx, scratchName(filename), data)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer func() {
		if cleanupErr := s.store.CleanupTemp(context.WithoutCancel(ctx), []string{path}); cleanupErr != nil {
			s.logger.Warn("failed to clean up scratch file",
				slog.String("path", path),
				slog.String("error", cleanupErr.Error()),
			)
		}
	}()

	clip, err := s.decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	stats := s.extractor.Extract(clip.Samples, clip.SampleRate)
	risk := s.scorer.Score(stats)

	s.logger.Info("clip analyzed",
		slog.String("filename", filename),
		slog.Float64("duration_sec", risk.DurationSeconds),
		slog.Float64("risk", risk.ConflictRisk),
		slog.Float64("calm", risk.Scores.Calm),
		slog.Float64("tense", risk.Scores.Tense),
		slog.Float64("angry", risk.Scores.Angry),
		slog.Float64("excited", risk.Scores.Excited),
	)

	result := &Result{Risk: risk}
	s.render(result, clip)
	return result, nil
}

// render attaches chart images. Chart rendering is presentation only, so
// failures are logged and the assessment is returned without the image.
func (s *Service) render(result *Result, clip audio.Clip) {
	if s.renderer == nil {
		return
	}

	png, err := s.renderer.RenderEmotions(result.Risk.Scores)
	if err != nil {
		s.logger.Error("emotion chart rendering failed",
			slog.String("error", err.Error()),
		)
	} else {
		result.ChartPNG = png
	}

	if !s.renderWaveform {
		return
	}
	png, err = s.renderer.RenderWaveform(clip.Samples, clip.SampleRate)
	if err != nil {
		s.logger.Error("waveform rendering failed",
			slog.String("error", err.Error()),
		)
		return
	}
	result.WaveformPNG = png
}

// scratchName derives a safe temp-file name hint from the uploaded filename.
func scratchName(filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "upload"
	}
	return base
}
