// Package liquidity scores transcript text with the narrative liquidity
// heuristic: five lexicon-driven features folded into a bounded composite.
package liquidity

import "math"

const (
	weightResonance       = 0.25
	weightQuotability     = 0.20
	weightNarrativeTurn   = 0.25
	weightHumanProvenance = 0.30

	MinScore = 0
	MaxScore = 100
)

// Scorer is safe for concurrent use; it only reads its lexicon.
type Scorer struct {
	lex Lexicon
}

func NewScorer(lex Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Features is the per-feature breakdown behind a liquidity score.
type Features struct {
	Resonance       float64 `json:"resonance"`
	Quotability     float64 `json:"quotability"`
	NarrativeTurn   float64 `json:"narrative_turn"`
	HumanProvenance float64 `json:"human_provenance"`
	SlopPenalty     float64 `json:"slop_penalty"`
	Liquidity       float64 `json:"liquidity"`
}

func (s *Scorer) Breakdown(text string, durationSec int) Features {
	f := Features{
		Resonance:       s.ResonanceDensity(text, durationSec),
		Quotability:     s.Quotability(text),
		NarrativeTurn:   s.NarrativeTurn(text),
		HumanProvenance: s.HumanProvenance(text),
		SlopPenalty:     s.SlopPenalty(text),
	}
	raw := weightResonance*f.Resonance +
		weightQuotability*f.Quotability +
		weightNarrativeTurn*f.NarrativeTurn +
		weightHumanProvenance*f.HumanProvenance -
		f.SlopPenalty
	f.Liquidity = clamp(round2(raw), MinScore, MaxScore)
	return f
}

// Liquidity returns the composite score in [0, 100], rounded to 2 decimals.
func (s *Scorer) Liquidity(text string, durationSec int) float64 {
	return s.Breakdown(text, durationSec).Liquidity
}

func round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
