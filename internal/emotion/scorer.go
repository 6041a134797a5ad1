// Package emotion implements the feature-to-emotion scoring transform.
// The Scorer maps a handful of scalar audio statistics through fixed linear
// heuristics into four emotion percentages and a derived conflict-risk score.
// It is a pure function: no I/O, no mutable state, no randomness. Only the
// timestamp attached to the assessment differs between identical calls.
package emotion

import (
	"math"
	"time"

	"github.com/unnamed8082/speech-emotion-analysis/internal/dsp"
)

// epsilon guards the relative RMS variability against division by zero on
// silent input.
const epsilon = 1e-8

// Constants are the tunable presentation weights of the scoring heuristic.
// They are fixed arithmetic coefficients, not learned parameters; exposing
// them as named configuration lets a test suite pin exact expected outputs.
type Constants struct {
	// CalmBase is the starting calm weight before variability is subtracted.
	CalmBase float64
	// CalmRMSWeight scales how strongly RMS variability erodes calm.
	CalmRMSWeight float64
	// Ceiling caps every raw weight before normalization.
	Ceiling float64
	// TenseRMSWeight and TenseZCRWeight build the tense weight.
	TenseRMSWeight float64
	TenseZCRWeight float64
	// AngryRMSWeight scales RMS variability in the angry weight.
	AngryRMSWeight float64
	// AngryCentroidWeight scales the normalized spectral centroid in the
	// angry weight. The term is skipped when no centroid was measured.
	AngryCentroidWeight float64
	// CentroidScale normalizes the mean spectral centroid (Hz) to roughly [0,1].
	CentroidScale float64
	// ExcitedWeight scales the combined variability in the excited weight.
	ExcitedWeight float64
	// RiskTenseWeight and RiskAngryWeight combine tense and angry percentages
	// into the conflict-risk score.
	RiskTenseWeight float64
	RiskAngryWeight float64
}

// DefaultConstants returns the stock weighting of the heuristic.
func DefaultConstants() Constants {
	return Constants{
		CalmBase:            100,
		CalmRMSWeight:       50,
		Ceiling:             100,
		TenseRMSWeight:      40,
		TenseZCRWeight:      20,
		AngryRMSWeight:      60,
		AngryCentroidWeight: 100,
		CentroidScale:       5000,
		ExcitedWeight:       30,
		RiskTenseWeight:     0.4,
		RiskAngryWeight:     0.6,
	}
}

// Scores holds the four emotion percentages. Each value is in [0,100] and
// the four sum to 100 within one-decimal rounding tolerance.
type Scores struct {
	Calm    float64
	Tense   float64
	Angry   float64
	Excited float64
}

// Sum returns the total of the four percentages.
func (s Scores) Sum() float64 {
	return s.Calm + s.Tense + s.Angry + s.Excited
}

// RiskAssessment is the complete result of scoring one clip.
type RiskAssessment struct {
	// ConflictRisk is the derived composite score in [0,100], one decimal.
	ConflictRisk float64
	// Scores is the emotion distribution.
	Scores Scores
	// DurationSeconds is the analyzed clip length, rounded to two decimals.
	DurationSeconds float64
	// Timestamp is the wall-clock capture time of the assessment.
	Timestamp time.Time
}

// Scorer computes RiskAssessments from audio statistics.
type Scorer struct {
	c   Constants
	now func() time.Time
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScorer creates a Scorer with the given constants.
func NewScorer(c Constants, opts ...ScorerOption) *Scorer {
	s := &Scorer{c: c, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score maps the statistics to an emotion distribution and conflict risk.
//
// The transform: raw weights are fixed linear combinations of the relative
// RMS variability, the mean zero-crossing rate and (when present) the
// normalized spectral centroid, each floored at zero and capped at the
// ceiling. The weights are normalized to percentages summing to 100. When
// every raw weight is zero (constant or silent input) the distribution
// defaults to calm=100 rather than dividing by zero.
func (s *Scorer) Score(stats dsp.AudioStatistics) RiskAssessment {
	rmsVar := stddev(stats.RMSSeries) / (mean(stats.RMSSeries) + epsilon)
	zcrMean := mean(stats.ZCRSeries)

	calm := math.Max(0, s.c.CalmBase-rmsVar*s.c.CalmRMSWeight)
	tense := math.Min(s.c.Ceiling, rmsVar*s.c.TenseRMSWeight+zcrMean*s.c.TenseZCRWeight)

	angry := rmsVar * s.c.AngryRMSWeight
	if stats.SpectralCentroidMean > 0 && s.c.CentroidScale > 0 {
		angry += stats.SpectralCentroidMean / s.c.CentroidScale * s.c.AngryCentroidWeight
	}
	angry = math.Min(s.c.Ceiling, angry)

	excited := math.Min(s.c.Ceiling, (rmsVar+zcrMean)*s.c.ExcitedWeight)

	total := calm + tense + angry + excited
	var scores Scores
	if total == 0 {
		scores = Scores{Calm: 100}
	} else {
		scores = Scores{
			Calm:    round1(calm / total * 100),
			Tense:   round1(tense / total * 100),
			Angry:   round1(angry / total * 100),
			Excited: round1(excited / total * 100),
		}
	}

	risk := scores.Tense*s.c.RiskTenseWeight + scores.Angry*s.c.RiskAngryWeight
	risk = round1(clamp(risk, 0, 100))

	return RiskAssessment{
		ConflictRisk:    risk,
		Scores:          scores,
		DurationSeconds: round2(stats.DurationSeconds),
		Timestamp:       s.now(),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
