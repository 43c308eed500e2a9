package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/cutline/internal/domain/analysis"
	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/ports"
	"github.com/forPelevin/cutline/internal/types"
)

type Deps struct {
	Scorer    highlights.Scorer
	Generator ports.Generator
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Transcript string
	Windowing  highlights.Windowing
	TopN       int
	// Enrich sends every spike to the generator, one at a time, waiting
	// Pause between calls.
	Enrich bool
	Pause  time.Duration
	Log    logrus.FieldLogger
}

type Result struct {
	Segments int
	Ranked   []types.ScoredSegment
	Spikes   []types.ScoredSegment
	Enriched []types.EnrichedSpike
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	if u.d.Scorer == nil {
		return Result{}, errors.New("usecase: scorer is required")
	}
	if in.Enrich && u.d.Generator == nil {
		return Result{}, errors.New("usecase: enrichment needs a generator")
	}
	log := in.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	segs, err := highlights.BuildSegments(in.Transcript, in.Windowing)
	if err != nil {
		return Result{}, err
	}
	ranked := highlights.Rank(segs, u.d.Scorer)
	res := Result{
		Segments: len(segs),
		Ranked:   ranked,
		Spikes:   highlights.Top(ranked, in.TopN),
	}
	log.WithFields(logrus.Fields{"segments": len(segs), "spikes": len(res.Spikes)}).Info("ranked segments")

	if !in.Enrich {
		return res, nil
	}

	res.Enriched = make([]types.EnrichedSpike, 0, len(res.Spikes))
	for i, sp := range res.Spikes {
		if i > 0 && in.Pause > 0 {
			if err := sleep(ctx, in.Pause); err != nil {
				return Result{}, err
			}
		}
		raw, err := u.d.Generator.Submit(ctx, analysis.BuildPrompt(sp))
		if err != nil {
			return Result{}, fmt.Errorf("enrich spike %d: %w", i+1, err)
		}
		a := analysis.Parse(raw)
		log.WithFields(logrus.Fields{"spike": i + 1, "tags": len(a.Tags)}).Debug("spike enriched")

		res.Enriched = append(res.Enriched, types.EnrichedSpike{
			Timestamp:      analysis.Timestamp(sp),
			LiquidityScore: sp.LiquidityScore,
			Text:           sp.Text,
			Analysis:       a,
		})
	}
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
