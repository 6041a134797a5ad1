// Package audio decodes uploaded audio clips into mono PCM samples at a
// fixed target sample rate. WAV payloads are decoded directly; every other
// container or codec is transcoded through ffmpeg first.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// ErrDecode is returned when an uploaded payload cannot be decoded into
// audio samples (corrupt data, unsupported codec, empty payload).
// Handlers surface it as a generic processing failure; the underlying
// decoder diagnostics stay in the wrapped error for logs only.
var ErrDecode = errors.New("audio decode failed")

// Clip is a decoded mono audio clip with samples in [-1,1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Decoder turns an audio file on disk into a normalized Clip.
type Decoder interface {
	// Decode reads the file at path and returns a mono clip resampled to the
	// decoder's target rate and truncated to its maximum duration.
	Decode(ctx context.Context, path string) (Clip, error)
}

// ClipDecoder implements Decoder using go-audio for WAV payloads and ffmpeg
// for everything else.
type ClipDecoder struct {
	transcoder *Transcoder
	targetRate int
	maxSeconds float64
}

// NewClipDecoder creates a ClipDecoder.
// If ffmpegPath is empty, "ffmpeg" is resolved from PATH. The targetRate is
// the sample rate every clip is resampled to; maxSeconds is the truncation
// ceiling (input beyond it is truncated, never rejected).
func NewClipDecoder(ffmpegPath string, targetRate int, maxSeconds float64) *ClipDecoder {
	return &ClipDecoder{
		transcoder: NewTranscoder(ffmpegPath),
		targetRate: targetRate,
		maxSeconds: maxSeconds,
	}
}

// Decode implements Decoder.
func (d *ClipDecoder) Decode(ctx context.Context, path string) (Clip, error) {
	select {
	case <-ctx.Done():
		return Clip{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	wavPath := path
	if !isWAV(path) {
		// Transcode to a scratch WAV next to the upload; ffmpeg applies the
		// mono downmix, resample and truncation in one pass.
		scratch := path + ".decoded.wav"
		if err := d.transcoder.ToMonoWAV(ctx, path, scratch, d.targetRate, d.maxSeconds); err != nil {
			return Clip{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		defer func() { _ = os.Remove(scratch) }()
		wavPath = scratch
	}

	clip, err := decodeWAV(wavPath)
	if err != nil {
		return Clip{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	clip = truncate(clip, d.maxSeconds)
	clip.Samples = resample(clip.Samples, clip.SampleRate, d.targetRate)
	clip.SampleRate = d.targetRate

	if len(clip.Samples) == 0 {
		return Clip{}, fmt.Errorf("%w: no audio samples in %s", ErrDecode, filepath.Base(path))
	}
	return clip, nil
}

// isWAV sniffs the RIFF/WAVE magic from the file header.
func isWAV(path string) bool {
	f, err := os.Open(path) // #nosec G304 - path is a request-scoped temp file
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 12)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE"
}

// decodeWAV reads a WAV file into a mono float clip at its native rate.
// Multi-channel audio is downmixed by averaging.
func decodeWAV(path string) (Clip, error) {
	f, err := os.Open(path) // #nosec G304 - path is a request-scoped temp file
	if err != nil {
		return Clip{}, fmt.Errorf("open wav: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Clip{}, errors.New("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return Clip{}, errors.New("empty pcm payload")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels) / scale
	}

	return Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// truncate caps the clip at maxSeconds. Input exactly at the ceiling is kept
// whole; anything beyond is cut, not rejected.
func truncate(c Clip, maxSeconds float64) Clip {
	if maxSeconds <= 0 || c.SampleRate <= 0 {
		return c
	}
	limit := int(maxSeconds * float64(c.SampleRate))
	if len(c.Samples) > limit {
		c.Samples = c.Samples[:limit]
	}
	return c
}

// resample converts samples from srcRate to dstRate by linear interpolation.
// Adjacent-sample interpolation is plenty for the coarse statistics computed
// downstream.
func resample(in []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 || len(in) == 0 {
		return in
	}
	ratio := float64(srcRate) / float64(dstRate)
	n := int(float64(len(in)) / ratio)
	if n == 0 {
		n = 1
	}
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = in[j]*(1-frac) + in[j+1]*frac
	}
	return out
}

// Verify interface implementation at compile time.
var _ Decoder = (*ClipDecoder)(nil)
