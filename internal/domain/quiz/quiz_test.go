package quiz

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/cutline/internal/types"
)

type scriptedGen struct {
	replies []string
	err     error
	prompts []string
}

func (g *scriptedGen) Submit(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", nil
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r, nil
}

const questionsJSON = "```json\n" + `[
  {"question": "Who left first?", "options": ["Ana", "Ben"], "answer": 1, "explanation": "Ben says so."},
  {"question": "", "options": ["a", "b"], "answer": 0},
  {"question": "One option?", "options": ["only"], "answer": 0},
  {"question": "Out of range?", "options": ["a", "b"], "answer": 2},
  {"question": "How many years?", "options": ["3", "5", "7"], "answer": 0}
]` + "\n```"

func TestBuild(t *testing.T) {
	gen := &scriptedGen{replies: []string{"  The summary.  ", questionsJSON}}
	q, err := New(gen).Build(context.Background(), "a long transcript", 5)
	require.NoError(t, err)

	assert.Equal(t, "The summary.", q.Summary)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "Who left first?", q.Questions[0].Question)
	assert.Equal(t, "How many years?", q.Questions[1].Question)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "a long transcript")
	assert.Contains(t, gen.prompts[1], "The summary.")
	assert.True(t, strings.HasPrefix(gen.prompts[1], "Write 5 "))
}

func TestBuild_TruncatesToRequested(t *testing.T) {
	gen := &scriptedGen{replies: []string{"sum", questionsJSON}}
	q, err := New(gen).Build(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
}

func TestBuild_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := New(&scriptedGen{err: boom}).Build(context.Background(), "text", 3)
	require.ErrorIs(t, err, boom)

	_, err = New(&scriptedGen{}).Build(context.Background(), "   ", 3)
	require.Error(t, err)

	_, err = New(&scriptedGen{}).Build(context.Background(), "text", 0)
	require.Error(t, err)

	_, err = New(&scriptedGen{replies: []string{""}}).Build(context.Background(), "text", 3)
	require.Error(t, err)

	_, err = New(&scriptedGen{replies: []string{"sum", `[{"question":"", "options":[], "answer":0}]`}}).
		Build(context.Background(), "text", 3)
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"raw", `[{"question":"q","options":["a","b"],"answer":0}]`, 1, false},
		{"preface", `Here you go: [{"question":"q","options":["a","b"],"answer":1}] enjoy`, 1, false},
		{"fenced", questionsJSON, 2, false},
		{"empty", "  ", 0, true},
		{"no array", "sorry", 0, true},
		{"broken json", "[{]", 0, true},
		{"empty array", "[]", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuestions(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestRender(t *testing.T) {
	q := types.Quiz{
		Summary: "Short summary.",
		Questions: []types.Question{
			{Question: "Pick one", Options: []string{"first", "second"}, Answer: 1, Explanation: "because"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, q))
	out := buf.String()

	assert.Contains(t, out, "Short summary.")
	assert.Contains(t, out, "1. Pick one")
	assert.Contains(t, out, "   a) first")
	assert.Contains(t, out, "   b) second")
	assert.Contains(t, out, "1. b (because)")
}
