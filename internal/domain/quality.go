package domain

import "math"

// ScoringPolicy holds the quality score weights.
type ScoringPolicy struct {
	Base         float64 `yaml:"base"`
	PerParameter float64 `yaml:"per_parameter"`
	ParameterCap float64 `yaml:"parameter_cap"`
	OutputBonus  float64 `yaml:"output_bonus"`
}

// DefaultScoringPolicy returns the stock weights.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Base:         0.5,
		PerParameter: 0.05,
		ParameterCap: 0.3,
		OutputBonus:  0.2,
	}
}

// QualityScorer computes a heuristic score in [0, 1] for a completed generation.
type QualityScorer struct {
	policy ScoringPolicy
}

// NewQualityScorer creates a new quality scorer (DI constructor).
func NewQualityScorer(policy ScoringPolicy) *QualityScorer {
	return &QualityScorer{policy: policy}
}

// Score rewards each set parameter up to the cap, plus a bonus when an output exists.
func (q *QualityScorer) Score(params Parameters, outputRef string) float64 {
	score := q.policy.Base
	score += math.Min(q.policy.PerParameter*float64(params.Count()), q.policy.ParameterCap)
	if outputRef != "" {
		score += q.policy.OutputBonus
	}
	return round2(math.Max(0, math.Min(1, score)))
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
