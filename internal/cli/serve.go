package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/domain/liquidity"
	"github.com/forPelevin/cutline/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scorer and ranker over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			lexPath, _ := cmd.Flags().GetString("lexicon")

			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			lex := liquidity.DefaultLexicon()
			if lexPath != "" {
				if lex, err = liquidity.LoadLexicon(lexPath); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(liquidity.NewScorer(lex), log).Listen(ctx, addr)
		},
	}
	cmd.Flags().String("addr", getenvDefault("CUTLINE_ADDR", ":8080"), "Listen address")
	cmd.Flags().String("lexicon", "", "YAML file overriding lexicon sets")
	return cmd
}
