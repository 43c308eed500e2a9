package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/cutline/internal/domain/quiz"
	"github.com/forPelevin/cutline/internal/ports"
	"github.com/forPelevin/cutline/internal/ports/adapters/openrouter"
	"github.com/forPelevin/cutline/internal/types"
)

type QuizConfig struct {
	Input     string
	OutDir    string
	Questions int
	Log       logrus.FieldLogger
	// Out receives the rendered quiz; nil skips rendering.
	Out io.Writer

	OpenRouter OpenRouter
	Generator  ports.Generator
}

func (c QuizConfig) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Questions <= 0 || c.Questions > quiz.MaxQuestions {
		return fmt.Errorf("questions must be between 1 and %d, got %d", quiz.MaxQuestions, c.Questions)
	}
	if c.Generator != nil {
		return nil
	}
	return c.OpenRouter.validate()
}

type QuizOutput struct {
	RunDir string
	Quiz   types.Quiz
}

// RunQuiz summarizes the transcript, builds the quiz and writes quiz.json
// into a fresh run directory.
func RunQuiz(ctx context.Context, cfg QuizConfig) (QuizOutput, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	text, err := LoadTranscript(cfg.Input)
	if err != nil {
		return QuizOutput{}, err
	}

	gen := cfg.Generator
	if gen == nil {
		adapter := openrouter.New(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL, log)
		log.WithField("model", adapter.Model()).Info("using openrouter")
		gen = adapter
	}

	runID := uuid.NewString()
	log = log.WithField("run_id", runID)
	log.WithField("questions", cfg.Questions).Info("building quiz")

	q, err := quiz.New(gen).Build(ctx, text, cfg.Questions)
	if err != nil {
		return QuizOutput{}, err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runDir := buildRunOutDir(outDir, cfg.Input, runID, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return QuizOutput{}, err
	}
	if err := writeJSON(filepath.Join(runDir, "quiz.json"), q); err != nil {
		return QuizOutput{}, err
	}
	log.WithFields(logrus.Fields{"dir": runDir, "questions": len(q.Questions)}).Info("quiz written")

	if cfg.Out != nil {
		if err := quiz.Render(cfg.Out, q); err != nil {
			return QuizOutput{}, err
		}
	}
	return QuizOutput{RunDir: runDir, Quiz: q}, nil
}
