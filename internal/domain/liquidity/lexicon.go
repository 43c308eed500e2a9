package liquidity

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WordSet is matched token by token.
type WordSet map[string]struct{}

func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

func (s WordSet) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// PhraseSet is matched as substrings of the lowercased text.
type PhraseSet []string

func NewPhraseSet(phrases ...string) PhraseSet {
	out := make(PhraseSet, 0, len(phrases))
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Lexicon holds every vocabulary the feature scorers consult. A Lexicon is
// built once and treated as read-only afterwards.
type Lexicon struct {
	Emotion     WordSet
	Insight     WordSet
	Contrast    WordSet
	Stakes      WordSet
	FirstPerson WordSet

	Cliches           PhraseSet
	Uncertainty       PhraseSet
	BeliefReversal    PhraseSet
	GenericMotivation PhraseSet
}

func DefaultLexicon() Lexicon {
	return Lexicon{
		Emotion: NewWordSet(
			"fear", "love", "hate", "anger", "shame", "hope", "joy",
			"anxiety", "panic", "sad", "happy", "excited", "terrified",
		),
		Insight: NewWordSet(
			"realized", "learned", "understood", "noticed",
			"figured", "discovered", "recognized",
		),
		Contrast:    NewWordSet("but", "however", "until", "suddenly", "then"),
		Stakes:      NewWordSet("risk", "lose", "lost", "failure", "consequence", "death"),
		FirstPerson: NewWordSet("i", "me", "my", "we", "our"),
		Cliches: NewPhraseSet(
			"at the end of the day",
			"everything happens for a reason",
			"you just have to",
			"believe in yourself",
			"trust the process",
		),
		Uncertainty: NewPhraseSet(
			"i don't know", "maybe", "i think", "i guess",
			"i'm not sure", "kind of", "sort of",
		),
		BeliefReversal:    NewPhraseSet("used to think", "thought that", "but then", "until i realized"),
		GenericMotivation: NewPhraseSet("success", "mindset", "grind", "motivation"),
	}
}

// lexiconFile is the YAML override format. A list that is absent or empty
// keeps the default set.
type lexiconFile struct {
	Emotion           []string `yaml:"emotion"`
	Insight           []string `yaml:"insight"`
	Contrast          []string `yaml:"contrast"`
	Stakes            []string `yaml:"stakes"`
	FirstPerson       []string `yaml:"first_person"`
	Cliches           []string `yaml:"cliches"`
	Uncertainty       []string `yaml:"uncertainty"`
	BeliefReversal    []string `yaml:"belief_reversal"`
	GenericMotivation []string `yaml:"generic_motivation"`
}

// LoadLexicon reads YAML overrides on top of DefaultLexicon. An empty path
// returns the defaults.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	var lf lexiconFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&lf); err != nil && !errors.Is(err, io.EOF) {
		return Lexicon{}, fmt.Errorf("decode lexicon %s: %w", path, err)
	}

	overrideWords(&lex.Emotion, lf.Emotion)
	overrideWords(&lex.Insight, lf.Insight)
	overrideWords(&lex.Contrast, lf.Contrast)
	overrideWords(&lex.Stakes, lf.Stakes)
	overrideWords(&lex.FirstPerson, lf.FirstPerson)
	overridePhrases(&lex.Cliches, lf.Cliches)
	overridePhrases(&lex.Uncertainty, lf.Uncertainty)
	overridePhrases(&lex.BeliefReversal, lf.BeliefReversal)
	overridePhrases(&lex.GenericMotivation, lf.GenericMotivation)
	return lex, nil
}

func overrideWords(dst *WordSet, words []string) {
	if s := NewWordSet(words...); len(s) > 0 {
		*dst = s
	}
}

func overridePhrases(dst *PhraseSet, phrases []string) {
	if p := NewPhraseSet(phrases...); len(p) > 0 {
		*dst = p
	}
}
