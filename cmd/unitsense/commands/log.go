package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/earlysvahn/unitsense/internal/store"
)

func newLogCommand(o *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the most recent relay calls from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.cfg.Audit.Backend == "" || o.cfg.Audit.Backend == store.BackendNone {
				return fmt.Errorf("the audit log is disabled; set audit.backend to sqlite or postgres")
			}
			audit, err := store.Open(store.Options{
				Backend:     o.cfg.Audit.Backend,
				SQLitePath:  o.cfg.Audit.SQLitePath,
				PostgresDSN: o.cfg.Audit.PostgresDSN,
			})
			if err != nil {
				return fmt.Errorf("audit store: %w", err)
			}
			defer audit.Close()

			recs, err := audit.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read audit log: %w", err)
			}
			printRecords(cmd.OutOrStdout(), recs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func printRecords(w io.Writer, recs []store.AuditRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No relay calls recorded.")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%s  %-9s %3d  %6s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Outcome,
			r.Status,
			r.Latency.Round(time.Millisecond),
			oneLine(r.Prompt, 60),
		)
	}
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > max {
		return string([]rune(s)[:max-3]) + "..."
	}
	return s
}
