package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/domain/analysis"
	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/pipeline"
	"github.com/forPelevin/cutline/internal/ports/adapters/openrouter"
	"github.com/forPelevin/cutline/internal/types"
)

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	topN, _ := cmd.Flags().GetInt("top")
	mode, _ := cmd.Flags().GetString("mode")
	lexicon, _ := cmd.Flags().GetString("lexicon")
	captions, _ := cmd.Flags().GetBool("captions")
	dbPath, _ := cmd.Flags().GetString("db")
	window, _ := cmd.Flags().GetFloat64("window")
	step, _ := cmd.Flags().GetFloat64("step")
	rate, _ := cmd.Flags().GetFloat64("rate")
	pause, _ := cmd.Flags().GetDuration("pause")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		Input:  absIn,
		OutDir: outDir,
		TopN:   topN,
		Windowing: highlights.Windowing{
			WindowSeconds:  window,
			StepSeconds:    step,
			WordsPerSecond: rate,
		},
		Mode:        strings.ToLower(strings.TrimSpace(mode)),
		LexiconPath: lexicon,
		Captions:    captions,
		DBPath:      dbPath,
		Pause:       pause,
		Log:         log,
		OpenRouter:  openRouterFromEnv(),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signalContext(time.Hour)
	defer cancel()

	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	printSpikes(cmd.OutOrStdout(), out.Manifest.Spikes)
	fmt.Fprintf(cmd.OutOrStdout(), "\nwritten to %s\n", out.RunDir)
	return nil
}

func openRouterFromEnv() pipeline.OpenRouter {
	return pipeline.OpenRouter{
		APIKey:       os.Getenv("OPENROUTER_API_KEY"),
		Model:        getenvDefault("OPENROUTER_MODEL", openrouter.DefaultModel),
		BaseURL:      getenvDefault("OPENROUTER_BASE_URL", openrouter.DefaultBaseURL),
		AllowedHosts: openrouter.SplitHosts(os.Getenv("OPENROUTER_ALLOWED_HOSTS")),
	}
}

// signalContext is canceled on interrupt or after limit.
func signalContext(limit time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, limit)
	return ctx, func() {
		cancel()
		stop()
	}
}

func printSpikes(w io.Writer, spikes []types.ScoredSegment) {
	if len(spikes) == 0 {
		fmt.Fprintln(w, "no spikes: transcript is empty")
		return
	}
	for i, sp := range spikes {
		fmt.Fprintf(w, "#%d  %6.2f  %-9s  %s\n", i+1, sp.LiquidityScore, analysis.Timestamp(sp), preview(sp.Text, 72))
	}
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
