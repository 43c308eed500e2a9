package ports

import (
	"context"

	"github.com/forPelevin/cutline/internal/types"
)

// Generator is a generative text service: one prompt in, raw text out.
type Generator interface {
	Submit(ctx context.Context, prompt string) (string, error)
}

// RunStore records the ranked result of a run.
type RunStore interface {
	SaveRun(ctx context.Context, m types.Manifest) error
}
