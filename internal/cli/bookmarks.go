package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/tnav/internal/storage"
)

// bookmarkRow is the JSON shape of one bookmark.
type bookmarkRow struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// NewBookmarksCommand creates the bookmarks command.
func NewBookmarksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks [query]",
		Short: "List or search bookmarks",
		Long: `Print saved bookmarks. With a query, only bookmarks whose
title or URL match are shown.

Examples:
  tnav bookmarks
  tnav bookmarks golang
  tnav bookmarks add https://go.dev The Go Programming Language
  tnav bookmarks remove https://go.dev`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runBookmarksList(rootOpts, cmd, query)
		},
	}

	cmd.AddCommand(NewBookmarksAddCommand(rootOpts))
	cmd.AddCommand(NewBookmarksRemoveCommand(rootOpts))

	return cmd
}

func runBookmarksList(opts *RootOptions, cmd *cobra.Command, query string) error {
	db, _, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewBookmarkStore(db)
	var rows []storage.Bookmark
	if query != "" {
		rows = store.Search(query)
	} else {
		rows = store.List()
	}

	if opts.Format == "json" {
		out := make([]bookmarkRow, 0, len(rows))
		for _, b := range rows {
			out = append(out, bookmarkRow{URL: b.URL, Title: b.Title})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks saved.")
		return nil
	}
	for _, b := range rows {
		title := b.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-60s  %s\n", b.URL, title)
	}
	return nil
}

// NewBookmarksAddCommand creates the bookmarks add command.
func NewBookmarksAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add URL [TITLE...]",
		Short:         "Save a bookmark",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			url := args[0]
			title := strings.Join(args[1:], " ")
			if !storage.NewBookmarkStore(db).Add(url, title) {
				return NewExitError(ExitFailure, "already bookmarked: "+url)
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), bookmarkRow{URL: url, Title: title})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", url)
			return nil
		},
	}
}

// NewBookmarksRemoveCommand creates the bookmarks remove command.
func NewBookmarksRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove URL",
		Short:         "Delete a bookmark",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			if !storage.NewBookmarkStore(db).Remove(args[0]) {
				return NewExitError(ExitFailure, "no such bookmark: "+args[0])
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"removed": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
