package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq float64, amplitude float64, sampleRate int, seconds float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestExtract_SineWave(t *testing.T) {
	const sampleRate = 22050
	e := NewExtractor()

	samples := sineWave(440, 0.5, sampleRate, 1.0)
	stats := e.Extract(samples, sampleRate)

	require.NotEmpty(t, stats.RMSSeries)
	require.NotEmpty(t, stats.ZCRSeries)
	assert.Len(t, stats.ZCRSeries, len(stats.RMSSeries))
	assert.Equal(t, sampleRate, stats.SampleRate)
	assert.InDelta(t, 1.0, stats.DurationSeconds, 1e-9)

	// RMS of a sine is amplitude/sqrt(2); check a full frame.
	assert.InDelta(t, 0.5/math.Sqrt2, stats.RMSSeries[0], 0.01)

	// A 440 Hz tone crosses zero 880 times per second.
	assert.InDelta(t, 2*440.0/sampleRate, stats.ZCRSeries[0], 0.005)

	// The centroid of a pure tone sits at its frequency, within a bin or two
	// of window leakage.
	assert.InDelta(t, 440.0, stats.SpectralCentroidMean, 40.0)
}

func TestExtract_Silence(t *testing.T) {
	e := NewExtractor()

	stats := e.Extract(make([]float64, 22050), 22050)

	require.NotEmpty(t, stats.RMSSeries)
	for i, rms := range stats.RMSSeries {
		assert.Zerof(t, rms, "rms frame %d", i)
		assert.Zerof(t, stats.ZCRSeries[i], "zcr frame %d", i)
	}
	assert.Zero(t, stats.SpectralCentroidMean)
}

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor()

	stats := e.Extract(nil, 22050)

	assert.Empty(t, stats.RMSSeries)
	assert.Empty(t, stats.ZCRSeries)
	assert.Zero(t, stats.SpectralCentroidMean)
	assert.Zero(t, stats.DurationSeconds)
}

func TestExtract_CentroidDisabled(t *testing.T) {
	e := NewExtractor(WithSpectralCentroid(false))

	stats := e.Extract(sineWave(880, 0.8, 22050, 0.5), 22050)

	require.NotEmpty(t, stats.RMSSeries)
	assert.Zero(t, stats.SpectralCentroidMean)
}

func TestExtract_FrameCount(t *testing.T) {
	e := NewExtractor(WithFrameLength(1024), WithHopLength(256))

	samples := sineWave(100, 0.3, 8000, 0.5) // 4000 samples
	stats := e.Extract(samples, 8000)

	// One frame per hop until a frame reaches the end of the signal:
	// ceil((4000-1024)/256)+1 = 13.
	assert.Len(t, stats.RMSSeries, 13)
}

func TestExtract_HighFrequencyRaisesCentroid(t *testing.T) {
	e := NewExtractor()

	low := e.Extract(sineWave(300, 0.5, 22050, 0.5), 22050)
	high := e.Extract(sineWave(3000, 0.5, 22050, 0.5), 22050)

	assert.Greater(t, high.SpectralCentroidMean, low.SpectralCentroidMean)
	assert.Greater(t, high.ZCRSeries[0], low.ZCRSeries[0])
}
