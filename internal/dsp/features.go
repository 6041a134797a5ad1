// Package dsp provides frame-based signal statistics for decoded audio.
// It produces the AudioStatistics consumed by the emotion scorer: a short-window
// RMS energy series, a zero-crossing-rate series, and a mean spectral centroid.
package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Default analysis window parameters. They match the frame/hop sizes the
// statistics were originally tuned against, so series lengths stay comparable.
const (
	DefaultFrameLength = 2048
	DefaultHopLength   = 512
)

// AudioStatistics holds the scalar statistics derived from one audio clip.
// All fields are immutable once produced; the struct is discarded after scoring.
type AudioStatistics struct {
	// RMSSeries is the root-mean-square amplitude per analysis frame.
	// Values are non-negative.
	RMSSeries []float64
	// ZCRSeries is the fraction of sign changes per analysis frame, in [0,1].
	ZCRSeries []float64
	// SpectralCentroidMean is the mean spectral centroid in Hz across frames
	// with non-zero energy. Zero means no centroid was measurable (silence)
	// or centroid extraction was disabled.
	SpectralCentroidMean float64
	// SampleRate is the rate of the analyzed samples in Hz.
	SampleRate int
	// DurationSeconds is the length of the analyzed clip in seconds.
	DurationSeconds float64
}

// Extractor computes AudioStatistics from mono PCM samples.
type Extractor struct {
	frameLength  int
	hopLength    int
	withCentroid bool
	window       []float64
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithFrameLength overrides the analysis frame length in samples.
func WithFrameLength(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.frameLength = n
		}
	}
}

// WithHopLength overrides the hop between frames in samples.
func WithHopLength(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.hopLength = n
		}
	}
}

// WithSpectralCentroid enables or disables spectral centroid extraction.
// Disabling it skips the per-frame FFT; the scorer then works from RMS and
// ZCR alone.
func WithSpectralCentroid(enabled bool) ExtractorOption {
	return func(e *Extractor) {
		e.withCentroid = enabled
	}
}

// NewExtractor creates an Extractor with the default frame and hop lengths.
// Spectral centroid extraction is enabled by default.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		frameLength:  DefaultFrameLength,
		hopLength:    DefaultHopLength,
		withCentroid: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.window = hanning(e.frameLength)
	return e
}

// Extract computes the statistics for a mono sample sequence.
// Samples are expected in [-1,1]. An empty input yields empty series and a
// zero centroid; the scorer treats that as degenerate silent input.
func (e *Extractor) Extract(samples []float64, sampleRate int) AudioStatistics {
	stats := AudioStatistics{
		SampleRate: sampleRate,
	}
	if sampleRate > 0 {
		stats.DurationSeconds = float64(len(samples)) / float64(sampleRate)
	}
	if len(samples) == 0 {
		return stats
	}

	nFrames := 1 + (len(samples)-1)/e.hopLength
	stats.RMSSeries = make([]float64, 0, nFrames)
	stats.ZCRSeries = make([]float64, 0, nFrames)

	var centroidSum float64
	var centroidFrames int

	for start := 0; start < len(samples); start += e.hopLength {
		end := start + e.frameLength
		if end > len(samples) {
			end = len(samples)
		}
		frame := samples[start:end]

		stats.RMSSeries = append(stats.RMSSeries, frameRMS(frame))
		stats.ZCRSeries = append(stats.ZCRSeries, frameZCR(frame))

		if e.withCentroid {
			if c, ok := e.frameCentroid(frame, sampleRate); ok {
				centroidSum += c
				centroidFrames++
			}
		}

		if end == len(samples) {
			break
		}
	}

	if centroidFrames > 0 {
		stats.SpectralCentroidMean = centroidSum / float64(centroidFrames)
	}
	return stats
}

// frameRMS returns the root-mean-square amplitude of one frame.
func frameRMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// frameZCR returns the fraction of adjacent sample pairs whose sign differs.
func frameZCR(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}

// frameCentroid computes the spectral centroid of one frame in Hz.
// The frame is Hanning-windowed and zero-padded to the configured frame
// length before the FFT. Returns ok=false for frames with no spectral energy.
func (e *Extractor) frameCentroid(frame []float64, sampleRate int) (float64, bool) {
	if sampleRate <= 0 {
		return 0, false
	}

	buf := make([]float64, e.frameLength)
	for i, s := range frame {
		if i >= len(buf) {
			break
		}
		buf[i] = s * e.window[i]
	}

	spectrum := fft.FFTReal(buf)
	binWidth := float64(sampleRate) / float64(e.frameLength)

	var weighted, total float64
	for k := 0; k <= e.frameLength/2; k++ {
		mag := cmplxAbs(spectrum[k])
		weighted += float64(k) * binWidth * mag
		total += mag
	}
	if total == 0 {
		return 0, false
	}
	return weighted / total, true
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// hanning builds a Hanning window of length n.
func hanning(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}
