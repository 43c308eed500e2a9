package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cutline <transcript>",
		Short:        "Rank the most narratively liquid moments of a transcript",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	pf := root.PersistentFlags()
	pf.String("log-level", getenvDefault("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	pf.String("log-format", getenvDefault("LOG_FORMAT", "text"), "Log format (text or json)")

	f := root.Flags()
	f.String("out", "out", "Output directory")
	f.Int("top", highlights.DefaultTopN, "Number of spikes to keep")
	f.String("mode", "offline", "offline (scoring only) or studio (enrich spikes through OpenRouter)")
	f.String("lexicon", "", "YAML file overriding lexicon sets")
	f.Bool("captions", false, "Write ASS karaoke captions for every spike")
	f.String("db", os.Getenv("CUTLINE_DB"), "SQLite run history to record into")

	// Tuning flags
	f.Float64("window", highlights.DefaultWindowSeconds, "Window length in seconds of speech")
	f.Float64("step", highlights.DefaultStepSeconds, "Window step in seconds of speech")
	f.Float64("rate", highlights.DefaultWordsPerSecond, "Speech rate in words per second")
	f.Duration("pause", time.Second, "Pause between generator calls in studio mode")

	root.AddCommand(
		newScoreCmd(),
		newQuizCmd(),
		newServeCmd(),
		newHistoryCmd(),
	)
	return root
}

func newLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	log, err := logging.New(level, format)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return log, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
