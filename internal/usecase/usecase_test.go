package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/domain/liquidity"
	"github.com/forPelevin/cutline/internal/logging"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Submit(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testTranscript(words int) string {
	base := []string{"i", "used", "to", "think", "success", "meant", "more", "but", "it", "was", "fear"}
	out := make([]string, 0, words)
	for i := 0; i < words; i++ {
		out = append(out, base[i%len(base)])
	}
	return strings.Join(out, " ") + "."
}

func newUsecase(gen *fakeGenerator) Usecase {
	d := Deps{Scorer: liquidity.NewScorer(liquidity.DefaultLexicon())}
	if gen != nil {
		d.Generator = gen
	}
	return New(d)
}

func TestRun_Offline(t *testing.T) {
	t.Parallel()

	res, err := newUsecase(nil).Run(context.Background(), Input{
		Transcript: testTranscript(200),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       2,
		Log:        logging.Discard(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Segments != 3 || len(res.Ranked) != 3 {
		t.Fatalf("expected 3 segments, got %d (%d ranked)", res.Segments, len(res.Ranked))
	}
	if len(res.Spikes) != 2 {
		t.Fatalf("expected 2 spikes, got %d", len(res.Spikes))
	}
	if res.Spikes[0].LiquidityScore < res.Spikes[1].LiquidityScore {
		t.Fatalf("spikes not ordered by score: %v", res.Spikes)
	}
	if res.Enriched != nil {
		t.Fatalf("offline run must not enrich")
	}
}

func TestRun_EmptyTranscript(t *testing.T) {
	t.Parallel()

	res, err := newUsecase(nil).Run(context.Background(), Input{
		Transcript: "   ",
		Windowing:  highlights.DefaultWindowing(),
		TopN:       5,
		Log:        logging.Discard(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Segments != 0 || len(res.Spikes) != 0 {
		t.Fatalf("expected no segments, got %+v", res)
	}
}

func TestRun_InvalidWindowing(t *testing.T) {
	t.Parallel()

	_, err := newUsecase(nil).Run(context.Background(), Input{
		Transcript: testTranscript(10),
		Windowing:  highlights.Windowing{WindowSeconds: 45, StepSeconds: 0.1, WordsPerSecond: 2.5},
		TopN:       1,
		Log:        logging.Discard(),
	})
	if !errors.Is(err, highlights.ErrInvalidWindowing) {
		t.Fatalf("expected ErrInvalidWindowing, got %v", err)
	}
}

func TestRun_EnrichesInRankOrder(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "2. Tags\ntension, humor\n5. Hooks\nX: hi"}
	res, err := newUsecase(gen).Run(context.Background(), Input{
		Transcript: testTranscript(200),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       2,
		Enrich:     true,
		Pause:      time.Millisecond,
		Log:        logging.Discard(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(gen.prompts) != 2 || len(res.Enriched) != 2 {
		t.Fatalf("expected 2 generator calls and 2 enriched spikes, got %d and %d", len(gen.prompts), len(res.Enriched))
	}
	for i, e := range res.Enriched {
		sp := res.Spikes[i]
		if e.LiquidityScore != sp.LiquidityScore || e.Text != sp.Text {
			t.Fatalf("enriched spike %d does not match ranked spike", i)
		}
		if !strings.Contains(gen.prompts[i], strings.TrimSpace(sp.Text)) {
			t.Fatalf("prompt %d does not carry the spike text", i)
		}
		if len(e.Analysis.Tags) != 2 || e.Analysis.Hooks.X != "X: hi" {
			t.Fatalf("unexpected analysis: %+v", e.Analysis)
		}
	}
}

func TestRun_MalformedReplyStillEnriches(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "no idea"}
	res, err := newUsecase(gen).Run(context.Background(), Input{
		Transcript: testTranscript(50),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       1,
		Enrich:     true,
		Log:        logging.Discard(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Enriched) != 1 || len(res.Enriched[0].Analysis.Tags) != 0 {
		t.Fatalf("expected one spike with empty analysis, got %+v", res.Enriched)
	}
}

func TestRun_GeneratorErrorFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := newUsecase(&fakeGenerator{err: boom}).Run(context.Background(), Input{
		Transcript: testTranscript(50),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       1,
		Enrich:     true,
		Log:        logging.Discard(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestRun_EnrichWithoutGenerator(t *testing.T) {
	t.Parallel()

	_, err := newUsecase(nil).Run(context.Background(), Input{
		Transcript: testTranscript(50),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       1,
		Enrich:     true,
	})
	if err == nil {
		t.Fatalf("expected error when enrichment has no generator")
	}
}

func TestRun_PauseHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeGenerator{reply: ""}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := newUsecase(gen).Run(ctx, Input{
		Transcript: testTranscript(200),
		Windowing:  highlights.DefaultWindowing(),
		TopN:       3,
		Enrich:     true,
		Pause:      time.Hour,
		Log:        logging.Discard(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected exactly one call before cancellation, got %d", len(gen.prompts))
	}
}
