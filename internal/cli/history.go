package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/tnav/internal/storage"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// visitRow is the JSON shape of one history entry.
type visitRow struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	VisitedAt string `json:"visited_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List or search the visit history",
		Long: `Print the visit history the browser records, newest first.
With a query, only visits whose title or URL match are shown.

Examples:
  tnav history
  tnav history golang --limit 10
  tnav history --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runHistory(opts, cmd, query)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 25, "maximum entries to show")

	cmd.AddCommand(NewHistoryClearCommand(rootOpts))

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command, query string) error {
	db, cfg, err := openDatabase(opts.RootOptions)
	if err != nil {
		return err
	}
	defer db.Close()

	visits := storage.NewVisitStore(db, cfg.HistoryCap)

	var rows []storage.Visit
	if query != "" {
		rows = visits.Search(query)
		if opts.Limit > 0 && len(rows) > opts.Limit {
			rows = rows[:opts.Limit]
		}
	} else {
		rows = visits.List(opts.Limit)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), toVisitRows(rows))
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No visits recorded.")
		return nil
	}
	for _, v := range rows {
		title := v.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-60s  %s\n",
			v.VisitedAt.Format("2006-01-02 15:04"), v.URL, title)
	}
	return nil
}

func toVisitRows(visits []storage.Visit) []visitRow {
	rows := make([]visitRow, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, visitRow{
			ID:        v.ID,
			URL:       v.URL,
			Title:     v.Title,
			VisitedAt: v.VisitedAt.Format(time.RFC3339),
		})
	}
	return rows
}

// NewHistoryClearCommand creates the history clear command.
func NewHistoryClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete the entire visit history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := openDatabase(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			n := storage.NewVisitStore(db, cfg.HistoryCap).Clear()
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"removed": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d visits.\n", n)
			return nil
		},
	}
}
