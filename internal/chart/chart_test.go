package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnamed8082/speech-emotion-analysis/internal/emotion"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderEmotions(t *testing.T) {
	r := NewPNGRenderer()

	png, err := r.RenderEmotions(emotion.Scores{Calm: 80, Tense: 8, Angry: 0, Excited: 12})
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, pngMagic, png[:8])
}

func TestRenderEmotions_NonFinite(t *testing.T) {
	r := NewPNGRenderer()

	_, err := r.RenderEmotions(emotion.Scores{Calm: math.NaN()})
	assert.ErrorIs(t, err, ErrNonFiniteValue)

	_, err = r.RenderEmotions(emotion.Scores{Angry: math.Inf(1)})
	assert.ErrorIs(t, err, ErrNonFiniteValue)
}

func TestRenderWaveform(t *testing.T) {
	r := NewPNGRenderer()

	samples := make([]float64, 22050)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/22050)
	}

	png, err := r.RenderWaveform(samples, 22050)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, png[:8])
}

func TestRenderWaveform_Empty(t *testing.T) {
	r := NewPNGRenderer()

	_, err := r.RenderWaveform(nil, 22050)
	assert.Error(t, err)
}
