package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Transcoder converts arbitrary audio containers to mono PCM WAV using the
// ffmpeg CLI.
type Transcoder struct {
	ffmpegPath string
}

// NewTranscoder creates a Transcoder.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
func NewTranscoder(ffmpegPath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcoder{ffmpegPath: ffmpegPath}
}

// ToMonoWAV transcodes src into a mono 16-bit PCM WAV at the given sample
// rate, truncated to maxSeconds when positive.
func (t *Transcoder) ToMonoWAV(ctx context.Context, src, dst string, sampleRate int, maxSeconds float64) error {
	args := []string{
		"-y", // Overwrite output
		"-hide_banner",
		"-i", src,
		"-vn", // Drop any video stream
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-acodec", "pcm_s16le",
	}
	if maxSeconds > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", maxSeconds))
	}
	args = append(args, dst)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, stderr: %s", err, stderr.String())
	}
	return nil
}
