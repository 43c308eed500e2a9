package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/domain/liquidity"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <text|->",
		Short: "Print the feature breakdown of one passage (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}
			duration, _ := cmd.Flags().GetInt("duration")
			if !cmd.Flags().Changed("duration") {
				duration = int(float64(len(strings.Fields(text))) / highlights.DefaultWordsPerSecond)
			}
			if duration < 0 {
				return fmt.Errorf("config: duration must be >= 0, got %d", duration)
			}
			lexPath, _ := cmd.Flags().GetString("lexicon")
			asJSON, _ := cmd.Flags().GetBool("json")

			lex := liquidity.DefaultLexicon()
			if lexPath != "" {
				var err error
				if lex, err = liquidity.LoadLexicon(lexPath); err != nil {
					return err
				}
			}
			f := liquidity.NewScorer(lex).Breakdown(text, duration)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			return printFeatures(w, f)
		},
	}
	cmd.Flags().Int("duration", 0, "Duration of the passage in seconds (default: estimated from the word count)")
	cmd.Flags().String("lexicon", "", "YAML file overriding lexicon sets")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func printFeatures(w io.Writer, f liquidity.Features) error {
	rows := []struct {
		name string
		v    float64
	}{
		{"resonance", f.Resonance},
		{"quotability", f.Quotability},
		{"narrative_turn", f.NarrativeTurn},
		{"human_provenance", f.HumanProvenance},
		{"slop_penalty", f.SlopPenalty},
		{"liquidity", f.Liquidity},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-17s %8.2f\n", r.name, r.v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
