package stamp

import (
	"fmt"
	"math"
)

// DefaultThreshold is the similarity a descriptor needs to cover a sentence.
const DefaultThreshold = 0.5

// Weights scales each interestingness term. Zero disables a term.
type Weights struct {
	ContentTypeChange float64 `yaml:"content_type_change" json:"content_type_change"`
	SentimentChange   float64 `yaml:"sentiment_change" json:"sentiment_change"`
	TextualEntailment float64 `yaml:"textual_entailment" json:"textual_entailment"`
	ContentSimilarity float64 `yaml:"content_similarity" json:"content_similarity"`
	CoverageCostRatio float64 `yaml:"coverage_cost_ratio" json:"coverage_cost_ratio"`
	SweepDistance     float64 `yaml:"sweep_distance" json:"sweep_distance"`
}

// UnitWeights gives every term weight 1.
func UnitWeights() Weights {
	return Weights{
		ContentTypeChange: 1,
		SentimentChange:   1,
		TextualEntailment: 1,
		ContentSimilarity: 1,
		CoverageCostRatio: 1,
		SweepDistance:     1,
	}
}

func (w Weights) all() []float64 {
	return []float64{
		w.ContentTypeChange, w.SentimentChange, w.TextualEntailment,
		w.ContentSimilarity, w.CoverageCostRatio, w.SweepDistance,
	}
}

// Sweep controls how fast the sweeping target moves toward the start of the
// document. Round r (counting from 1) lowers it by Step*(1+Growth*(r-1)).
type Sweep struct {
	Step   float64 `yaml:"step" json:"step"`
	Growth float64 `yaml:"growth" json:"growth"`
}

// decrement is the amount the target drops after round r.
func (s Sweep) decrement(round int) float64 {
	return s.Step * (1 + s.Growth*float64(round-1))
}

// Options configures a selection run.
type Options struct {
	MaxPages  int     `yaml:"max_pages" json:"max_pages"`
	Threshold float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	Weights   Weights `yaml:"weights" json:"weights"`
	Sweep     Sweep   `yaml:"sweep" json:"sweep"`
}

// DefaultOptions returns the standard settings for a page budget.
func DefaultOptions(maxPages int) Options {
	return Options{
		MaxPages:  maxPages,
		Threshold: DefaultThreshold,
		Weights:   UnitWeights(),
		Sweep:     Sweep{Step: 1},
	}
}

// Validate rejects options the sequencer cannot run with.
func (o Options) Validate() error {
	if o.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive, got %d: %w", o.MaxPages, ErrInvalidOptions)
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %v: %w", o.Threshold, ErrInvalidOptions)
	}
	if math.IsNaN(o.Sweep.Step) || o.Sweep.Step < 0 {
		return fmt.Errorf("sweep step must not be negative, got %v: %w", o.Sweep.Step, ErrInvalidOptions)
	}
	if math.IsNaN(o.Sweep.Growth) || o.Sweep.Growth < 0 {
		return fmt.Errorf("sweep growth must not be negative, got %v: %w", o.Sweep.Growth, ErrInvalidOptions)
	}
	for _, w := range o.Weights.all() {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weights must be finite: %w", ErrInvalidOptions)
		}
	}
	return nil
}
