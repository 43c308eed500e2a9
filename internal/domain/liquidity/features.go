package liquidity

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var reSentenceEnd = regexp.MustCompile(`[.!?]`)

const (
	minQuotableRunes = 20
	maxQuotableRunes = 140
)

// tokenFrequency counts every token that belongs to set.
func tokenFrequency(tokens []string, set WordSet) int {
	n := 0
	for _, t := range tokens {
		if set.Has(t) {
			n++
		}
	}
	return n
}

// phrasePresence counts the phrases that occur at least once in lower.
// Repeats of the same phrase count once.
func phrasePresence(lower string, phrases PhraseSet) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}

// ResonanceDensity weighs emotion and insight hits, plus their imbalance,
// per second of speech. A non-positive duration scores 0.
func (s *Scorer) ResonanceDensity(text string, durationSec int) float64 {
	if durationSec <= 0 {
		return 0
	}
	tokens := Tokenize(text)
	emotion := tokenFrequency(tokens, s.lex.Emotion)
	insight := tokenFrequency(tokens, s.lex.Insight)
	variance := math.Abs(float64(emotion - insight))

	return (1.5*float64(emotion) + 1.2*float64(insight) + 10*variance) / float64(durationSec)
}

// Quotability rewards short sentences and first-person voice.
//
// The declarative term counts every sentence piece, including the empty
// piece after a trailing terminator.
func (s *Scorer) Quotability(text string) float64 {
	sentences := reSentenceEnd.Split(text, -1)

	short := 0
	declarative := 0
	for _, sent := range sentences {
		n := utf8.RuneCountInString(strings.TrimSpace(sent))
		if n > minQuotableRunes && n < maxQuotableRunes {
			short++
		}
		declarative++
	}
	fp := tokenFrequency(Tokenize(text), s.lex.FirstPerson)

	return 2.0*float64(short) + 1.5*float64(declarative) + 1.2*float64(fp)
}

// NarrativeTurn rewards contrast markers, stakes and belief reversals.
func (s *Scorer) NarrativeTurn(text string) float64 {
	tokens := Tokenize(text)
	contrast := tokenFrequency(tokens, s.lex.Contrast)
	stakes := tokenFrequency(tokens, s.lex.Stakes)
	reversal := phrasePresence(strings.ToLower(text), s.lex.BeliefReversal)

	return 2.0*float64(contrast) + 3.0*float64(reversal) + 1.5*float64(stakes)
}

// HumanProvenance rewards first-person voice, hedging and concrete numbers.
func (s *Scorer) HumanProvenance(text string) float64 {
	tokens := Tokenize(text)
	fp := tokenFrequency(tokens, s.lex.FirstPerson)
	uncertainty := phrasePresence(strings.ToLower(text), s.lex.Uncertainty)

	specificity := 0
	for _, t := range tokens {
		if isNumeric(t) {
			specificity++
		}
	}

	return 1.5*float64(fp) + 2.0*float64(uncertainty) + 2.5*float64(specificity)
}

// SlopPenalty is subtracted from the composite.
func (s *Scorer) SlopPenalty(text string) float64 {
	lower := strings.ToLower(text)
	cliches := phrasePresence(lower, s.lex.Cliches)
	generic := phrasePresence(lower, s.lex.GenericMotivation)

	return 3.0*float64(cliches) + 2.0*float64(generic)
}
