package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/cutline/internal/types"
)

// RenderSpikeASS renders karaoke captions for a spike. Word timings come
// from the same linear speech-rate estimate used to segment the transcript,
// and event times are clip-local.
func RenderSpikeASS(spike types.ScoredSegment, wordsPerSecond float64) (string, error) {
	if wordsPerSecond <= 0 {
		return "", fmt.Errorf("subtitles: words per second must be > 0, got %v", wordsPerSecond)
	}
	words := estimateWords(spike.Text, wordsPerSecond)
	if len(words) == 0 {
		return renderASSPlain("", time.Duration(spike.Duration)*time.Second), nil
	}
	return renderASSKaraoke(packWords(words)), nil
}

type wword struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type line struct {
	Start time.Duration
	End   time.Duration
	Words []wword
}

func estimateWords(text string, wordsPerSecond float64) []wword {
	per := time.Duration(float64(time.Second) / wordsPerSecond)
	fields := strings.Fields(text)
	out := make([]wword, 0, len(fields))
	for i, f := range fields {
		txt := sanitizeASS(f)
		if txt == "" {
			continue
		}
		start := time.Duration(i) * per
		out = append(out, wword{Start: start, End: start + per, Text: txt})
	}
	return out
}

func packWords(words []wword) []line {
	var out []line
	cur := line{Start: words[0].Start}
	// Short lines keep captions readable on vertical layouts.
	charBudget := 42
	wordBudget := 9
	curLen := 0
	for i, w := range words {
		wl := len([]rune(w.Text))
		nextLen := curLen
		if curLen > 0 {
			nextLen++
		}
		nextLen += wl
		if len(cur.Words) > 0 && (len(cur.Words) >= wordBudget || nextLen > charBudget) {
			cur.End = cur.Words[len(cur.Words)-1].End
			out = append(out, cur)
			cur = line{Start: w.Start}
			curLen = 0
		}
		cur.Words = append(cur.Words, w)
		if curLen > 0 {
			curLen++
		}
		curLen += wl
		if i == len(words)-1 {
			cur.End = w.End
			out = append(out, cur)
		}
	}
	return out
}

func renderASSKaraoke(lines []line) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, ln := range lines {
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(ln.Start))
		b.WriteString(",")
		b.WriteString(assTime(ln.End))
		b.WriteString(",Vertical,,0,0,0,,")
		for _, w := range ln.Words {
			durCS := int((w.End - w.Start) / (10 * time.Millisecond))
			if durCS < 1 {
				durCS = 1
			}
			b.WriteString(fmt.Sprintf("{\\k%d}%s ", durCS, w.Text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderASSPlain(text string, dur time.Duration) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	b.WriteString("Dialogue: 0,0:00:00.00,")
	b.WriteString(assTime(dur))
	b.WriteString(",Vertical,,0,0,0,,")
	b.WriteString(sanitizeASS(text))
	b.WriteString("\n")
	return b.String()
}

// 1080x1920 canvas for 9:16 cuts.
func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Vertical, Inter, 72, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,2, 60,60,420,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}
