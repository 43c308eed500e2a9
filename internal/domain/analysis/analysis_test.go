package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/cutline/internal/types"
)

const sampleResponse = `
**1. Why it works**
- The speaker admits the belief out loud.
• The reversal lands in one breath.
* Fear is named, not implied.

**2. Tags**
[belief-shift, vulnerability, tension]

### 3. Human provenance
The hesitation before "fear" is not something a script would keep.
It reads as lived.

4. Vertical cut guidance
- Best start frame: "I used to think"
- Best end frame: "it was fear."
- Subtitle density: low

5. Hooks
- X: I chased success until I saw what it was made of.
- TikTok: What if the thing you wanted was fear in a nicer coat?
- Reels: The moment I realized it was never about winning.
`

func TestParse_FullResponse(t *testing.T) {
	a := Parse(sampleResponse)

	assert.Equal(t, []string{
		"The speaker admits the belief out loud.",
		"The reversal lands in one breath.",
		"Fear is named, not implied.",
	}, a.WhyItHits)
	assert.Equal(t, []string{"belief-shift", "vulnerability", "tension"}, a.Tags)
	assert.Equal(t, `The hesitation before "fear" is not something a script would keep. It reads as lived.`, a.HumanProvenance)
	assert.Contains(t, a.VerticalGuidance, `Best start frame: "I used to think"`)
	assert.Contains(t, a.VerticalGuidance, "Subtitle density: low")

	assert.Equal(t, "X: I chased success until I saw what it was made of.", a.Hooks.X)
	assert.True(t, strings.HasPrefix(a.Hooks.TikTok, "TikTok:"))
	assert.True(t, strings.HasPrefix(a.Hooks.Reels, "Reels:"))
}

func TestParse_DegradesGracefully(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no sections", "I cannot help with that.\nSorry."},
		{"headers only", "1.\n2.\n3.\n4.\n5."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Parse(tt.raw)
			require.NotNil(t, a.WhyItHits)
			require.NotNil(t, a.Tags)
			assert.Empty(t, a.WhyItHits)
			assert.Empty(t, a.Tags)
			assert.Empty(t, a.HumanProvenance)
			assert.Empty(t, a.VerticalGuidance)
			assert.Equal(t, types.Hooks{}, a.Hooks)
		})
	}
}

func TestParse_PartialSections(t *testing.T) {
	a := Parse("2. Tags\nhumor insight\n5. Hooks\nTikTok: wait for it")
	assert.Empty(t, a.WhyItHits)
	assert.Equal(t, []string{"humor", "insight"}, a.Tags)
	assert.Equal(t, "TikTok: wait for it", a.Hooks.TikTok)
	assert.Empty(t, a.Hooks.X)
}

func TestIsXLabel(t *testing.T) {
	assert.True(t, isXLabel("x: hello"))
	assert.True(t, isXLabel("x (<=140 chars): hello"))
	assert.True(t, isXLabel("twitter: hello"))
	assert.False(t, isXLabel("xylophone solo"))
	assert.False(t, isXLabel("next time"))
}

func TestBuildPrompt(t *testing.T) {
	spike := types.ScoredSegment{
		Segment:        types.Segment{Text: "  I was terrified.  ", StartTime: 30, EndTime: 74},
		LiquidityScore: 12.5,
	}
	p := BuildPrompt(spike)
	assert.Contains(t, p, "\"\"\"\nI was terrified.\n\"\"\"")
	assert.Contains(t, p, "30–74")
	assert.Contains(t, p, "12.50")
	assert.Contains(t, p, "belief-shift")
	for _, n := range []string{"1.", "2.", "3.", "4.", "5."} {
		assert.Contains(t, p, "\n"+n+" ")
	}
}
