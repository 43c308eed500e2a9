// Package quiz summarizes a transcript and turns the summary into a
// multiple-choice quiz through a text generator.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/forPelevin/cutline/internal/ports"
	"github.com/forPelevin/cutline/internal/types"
)

const (
	DefaultQuestions = 5
	MaxQuestions     = 20
)

var ErrNoQuestions = errors.New("quiz: no valid questions in response")

type Builder struct {
	gen ports.Generator
}

func New(gen ports.Generator) *Builder {
	return &Builder{gen: gen}
}

// Build summarizes transcript, then asks for n questions over the summary.
func (b *Builder) Build(ctx context.Context, transcript string, n int) (types.Quiz, error) {
	if strings.TrimSpace(transcript) == "" {
		return types.Quiz{}, errors.New("quiz: transcript is empty")
	}
	if n <= 0 || n > MaxQuestions {
		return types.Quiz{}, fmt.Errorf("quiz: questions must be between 1 and %d, got %d", MaxQuestions, n)
	}

	summary, err := b.gen.Submit(ctx, fmt.Sprintf(SummaryPrompt, transcript))
	if err != nil {
		return types.Quiz{}, fmt.Errorf("summarize: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return types.Quiz{}, errors.New("quiz: empty summary")
	}

	raw, err := b.gen.Submit(ctx, fmt.Sprintf(QuestionsPrompt, n, summary))
	if err != nil {
		return types.Quiz{}, fmt.Errorf("generate questions: %w", err)
	}
	qs, err := ParseQuestions(raw)
	if err != nil {
		return types.Quiz{}, err
	}
	if len(qs) > n {
		qs = qs[:n]
	}
	return types.Quiz{Summary: summary, Questions: qs}, nil
}

// ParseQuestions decodes the JSON array in raw, tolerating code fences and
// surrounding prose. Questions that fail validation are dropped.
func ParseQuestions(raw string) ([]types.Question, error) {
	clean, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}
	var all []types.Question
	if err := json.Unmarshal([]byte(clean), &all); err != nil {
		return nil, fmt.Errorf("quiz: decode questions: %w", err)
	}

	out := make([]types.Question, 0, len(all))
	for _, q := range all {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" || len(q.Options) < 2 {
			continue
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

func extractJSONArray(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("quiz: empty response")
	}
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("quiz: could not locate JSON array in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Render prints the quiz for a terminal.
func Render(w io.Writer, q types.Quiz) error {
	var b strings.Builder
	b.WriteString("Summary\n\n")
	b.WriteString(q.Summary)
	b.WriteString("\n\nQuiz\n")
	for i, qu := range q.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, qu.Question)
		for j, opt := range qu.Options {
			fmt.Fprintf(&b, "   %c) %s\n", optionLetter(j), opt)
		}
	}
	b.WriteString("\nAnswers\n\n")
	for i, qu := range q.Questions {
		fmt.Fprintf(&b, "%d. %c", i+1, optionLetter(qu.Answer))
		if qu.Explanation != "" {
			fmt.Fprintf(&b, " (%s)", qu.Explanation)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func optionLetter(i int) rune {
	if i < 0 || i >= 26 {
		return '?'
	}
	return rune('a' + i)
}
