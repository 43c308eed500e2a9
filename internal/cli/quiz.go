package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/domain/quiz"
	"github.com/forPelevin/cutline/internal/pipeline"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz <transcript>",
		Short: "Summarize a transcript and generate a multiple-choice quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			questions, _ := cmd.Flags().GetInt("questions")

			absIn, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}

			cfg := pipeline.QuizConfig{
				Input:      absIn,
				OutDir:     outDir,
				Questions:  questions,
				Log:        log,
				Out:        cmd.OutOrStdout(),
				OpenRouter: openRouterFromEnv(),
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := signalContext(15 * time.Minute)
			defer cancel()

			out, err := pipeline.RunQuiz(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nwritten to %s\n", out.RunDir)
			return nil
		},
	}
	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Int("questions", quiz.DefaultQuestions, "Number of questions")
	return cmd
}
