package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnamed8082/speech-emotion-analysis/internal/audio"
	"github.com/unnamed8082/speech-emotion-analysis/internal/chart"
	"github.com/unnamed8082/speech-emotion-analysis/internal/dsp"
	"github.com/unnamed8082/speech-emotion-analysis/internal/emotion"
	"github.com/unnamed8082/speech-emotion-analysis/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// encodeWAV builds an in-memory WAV payload from PCM samples.
func encodeWAV(t *testing.T, data []int, sampleRate int) []byte {
	t.Helper()

	path := t.TempDir() + "/fixture.wav"
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	return payload
}

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.LocalStorage) {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := NewService(
		audio.NewClipDecoder("", 22050, 30),
		dsp.NewExtractor(),
		emotion.NewScorer(emotion.DefaultConstants()),
		chart.NewPNGRenderer(),
		store,
		testLogger(),
		opts...,
	)
	return svc, store
}

func TestAnalyze_SilentClipIsCalm(t *testing.T) {
	svc, store := newTestService(t)

	payload := encodeWAV(t, make([]int, 5*22050), 22050)
	result, err := svc.Analyze(context.Background(), "silent.wav", bytes.NewReader(payload))
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.Risk.Scores.Calm, 0.1)
	assert.InDelta(t, 0.0, result.Risk.ConflictRisk, 0.1)
	assert.InDelta(t, 5.0, result.Risk.DurationSeconds, 0.05)
	assert.NotEmpty(t, result.ChartPNG)
	assert.Empty(t, result.WaveformPNG)

	// The scratch file must be gone after the request.
	entries, err := os.ReadDir(store.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyze_VaryingClipRaisesRisk(t *testing.T) {
	svc, _ := newTestService(t)

	// Amplitude-modulated tone: high RMS variability relative to a silent clip.
	const rate = 22050
	data := make([]int, 2*rate)
	for i := range data {
		tt := float64(i) / rate
		env := 0.5 + 0.5*math.Sin(2*math.Pi*2*tt)
		data[i] = int(env * 0.8 * math.Sin(2*math.Pi*440*tt) * 32767)
	}
	payload := encodeWAV(t, data, rate)

	result, err := svc.Analyze(context.Background(), "modulated.wav", bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Less(t, result.Risk.Scores.Calm, 100.0)
	assert.Greater(t, result.Risk.ConflictRisk, 0.0)
	assert.InDelta(t, 100.0, result.Risk.Scores.Sum(), 0.1)
}

func TestAnalyze_WaveformChartEnabled(t *testing.T) {
	svc, _ := newTestService(t, WithWaveformChart(true))

	payload := encodeWAV(t, make([]int, 22050), 22050)
	result, err := svc.Analyze(context.Background(), "clip.wav", bytes.NewReader(payload))
	require.NoError(t, err)

	assert.NotEmpty(t, result.WaveformPNG)
}

func TestAnalyze_CorruptPayload(t *testing.T) {
	svc, store := newTestService(t)

	garbage := append([]byte("RIFF\x00\x00\x00\x00WAVE"), bytes.Repeat([]byte{0xde, 0xad}, 64)...)
	_, err := svc.Analyze(context.Background(), "broken.wav", bytes.NewReader(garbage))
	require.Error(t, err)
	assert.ErrorIs(t, err, audio.ErrDecode)

	// Cleanup also runs on the failure path.
	entries, err := os.ReadDir(store.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScratchName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"clip.wav", "clip.wav"},
		{"../../etc/passwd", "passwd"},
		{"my recording (1).mp3", "my_recording__1_.mp3"},
		{"", "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, scratchName(tt.input))
		})
	}
}
