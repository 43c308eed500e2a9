package highlights

import (
	"sort"

	"github.com/forPelevin/cutline/internal/types"
)

// DefaultTopN is how many spikes a run keeps unless told otherwise.
const DefaultTopN = 5

// Scorer is the composite scorer applied to every segment.
type Scorer interface {
	Liquidity(text string, durationSec int) float64
}

// Rank scores every segment and orders them by liquidity, highest first.
// Equal scores keep their input order.
func Rank(segs []types.Segment, s Scorer) []types.ScoredSegment {
	out := make([]types.ScoredSegment, 0, len(segs))
	for _, seg := range segs {
		out = append(out, types.ScoredSegment{
			Segment:        seg,
			LiquidityScore: s.Liquidity(seg.Text, seg.Duration),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LiquidityScore > out[j].LiquidityScore
	})
	return out
}

// Top returns at most n leading entries of a ranked list.
func Top(ranked []types.ScoredSegment, n int) []types.ScoredSegment {
	if n <= 0 || len(ranked) == 0 {
		return []types.ScoredSegment{}
	}
	n = min(n, len(ranked))
	out := make([]types.ScoredSegment, n)
	copy(out, ranked[:n])
	return out
}
