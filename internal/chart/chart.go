// Package chart renders analysis results as PNG images for inline transport.
// Rendering is a presentation strategy the analysis service emits data into;
// the scorer itself never depends on it.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/unnamed8082/speech-emotion-analysis/internal/emotion"
)

// ErrNonFiniteValue is returned when a score or sample is NaN or infinite.
// The scorer contract guarantees finite values, so hitting this is a defect
// upstream, not an expected runtime condition.
var ErrNonFiniteValue = errors.New("chart: non-finite input value")

// Renderer produces chart images from analysis data.
type Renderer interface {
	// RenderEmotions draws the four emotion percentages as a bar chart and
	// returns the encoded PNG bytes.
	RenderEmotions(scores emotion.Scores) ([]byte, error)

	// RenderWaveform draws the amplitude envelope of the decoded clip and
	// returns the encoded PNG bytes.
	RenderWaveform(samples []float64, sampleRate int) ([]byte, error)
}

// maxWaveformPoints caps the number of points drawn for a waveform so a full
// 30 s clip does not produce a 600k-point path.
const maxWaveformPoints = 2048

// PNGRenderer implements Renderer using gonum/plot.
type PNGRenderer struct {
	width  vg.Length
	height vg.Length
}

// NewPNGRenderer creates a PNGRenderer with the default 8x5 inch canvas,
// matching the figure size of the charts this service always rendered.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{width: 8 * vg.Inch, height: 5 * vg.Inch}
}

// RenderEmotions implements Renderer.
func (r *PNGRenderer) RenderEmotions(scores emotion.Scores) ([]byte, error) {
	values := []float64{scores.Calm, scores.Tense, scores.Angry, scores.Excited}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNonFiniteValue, v)
		}
	}

	p := plot.New()
	p.Title.Text = "Emotion Analysis"
	p.Y.Label.Text = "Percent"
	p.Y.Min, p.Y.Max = 0, 100

	colors := []color.Color{
		color.RGBA{G: 160, A: 255},          // calm: green
		color.RGBA{R: 230, G: 190, A: 255},  // tense: yellow
		color.RGBA{R: 200, A: 255},          // angry: red
		color.RGBA{R: 130, B: 180, A: 255},  // excited: purple
	}

	// One bar chart per emotion so each bar keeps its own color; the other
	// slots are zero-height and invisible.
	for i, v := range values {
		vals := make(plotter.Values, len(values))
		vals[i] = v
		bars, err := plotter.NewBarChart(vals, vg.Points(40))
		if err != nil {
			return nil, fmt.Errorf("build bar chart: %w", err)
		}
		bars.Color = colors[i]
		bars.LineStyle.Width = 0
		p.Add(bars)
	}
	p.NominalX("calm", "tense", "angry", "excited")

	return r.encodePNG(p)
}

// RenderWaveform implements Renderer.
func (r *PNGRenderer) RenderWaveform(samples []float64, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 || len(samples) == 0 {
		return nil, errors.New("chart: no samples to draw")
	}

	step := len(samples) / maxWaveformPoints
	if step < 1 {
		step = 1
	}

	pts := make(plotter.XYs, 0, len(samples)/step+1)
	for i := 0; i < len(samples); i += step {
		s := samples[i]
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: sample %d", ErrNonFiniteValue, i)
		}
		pts = append(pts, plotter.XY{
			X: float64(i) / float64(sampleRate),
			Y: s,
		})
	}

	p := plot.New()
	p.Title.Text = "Waveform"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Amplitude"
	p.Y.Min, p.Y.Max = -1, 1

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build waveform line: %w", err)
	}
	line.Color = color.RGBA{B: 180, A: 255}
	p.Add(line)

	return r.encodePNG(p)
}

// encodePNG rasterizes the plot into PNG bytes.
func (r *PNGRenderer) encodePNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify interface implementation at compile time.
var _ Renderer = (*PNGRenderer)(nil)
