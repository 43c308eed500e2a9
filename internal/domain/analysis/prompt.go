package analysis

import (
	"fmt"
	"strings"

	"github.com/forPelevin/cutline/internal/types"
)

// Tags the analyst may assign.
var Tags = []string{
	"resonance", "vulnerability", "belief-shift", "humor",
	"tension", "intimacy", "contradiction", "insight",
}

const promptTemplate = `You are an editorial signal analyst.

Transcript Segment:
"""
%s
"""

Timestamp:
%s

Narrative Liquidity Score:
%.2f

Your task:

1. Explain WHY this moment works in 3 concise bullet points.
2. Assign 3-5 tags from:
   [%s]
3. Explain why this moment is irreplaceably human and resistant to AI imitation.
4. Suggest vertical video cut guidance:
   - Best start frame
   - Best end frame
   - Subtitle density
5. Generate hooks:
   - X (<=140 chars)
   - TikTok opening line
   - Reels emotional opener

Rules:
- No summarizing
- No generic motivation
- Preserve uncertainty
- Keep the numbered section headers 1. to 5. exactly as given
`

// Timestamp formats a spike's estimated span the way it appears in output.
func Timestamp(s types.ScoredSegment) string {
	return fmt.Sprintf("%d–%d", s.StartTime, s.EndTime)
}

func BuildPrompt(spike types.ScoredSegment) string {
	return fmt.Sprintf(promptTemplate,
		strings.TrimSpace(spike.Text),
		Timestamp(spike),
		spike.LiquidityScore,
		strings.Join(Tags, ", "),
	)
}
