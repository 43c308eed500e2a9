package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cutline/internal/ports/adapters/sqlitestore"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the SQLite history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")
			if dbPath == "" {
				return errors.New("config: --db or CUTLINE_DB is required")
			}
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("config: stat db: %w", err)
			}

			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			store, err := sqlitestore.Open(ctx, dbPath, log)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tWHEN\tMODE\tSEGMENTS\tSPIKES\tTOP\tINPUT")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\t%s\n",
					r.ID, r.GeneratedAt.Local().Format(time.DateTime), r.Mode, r.Segments, r.Spikes, r.TopScore, r.Input)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("db", os.Getenv("CUTLINE_DB"), "SQLite run history")
	cmd.Flags().Int("limit", 20, "Maximum runs to list (0 lists all)")
	return cmd
}
