package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pathsource/internal/core"
	"pathsource/internal/history"
	"pathsource/internal/styles"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var (
		directory string
		search    string
		limit     int
		clear     bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the completion history",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := history.NewManager(core.HistoryFile())
			if err != nil {
				return err
			}

			if clear {
				if err := manager.Reset(); err != nil {
					return err
				}
				fmt.Println(styles.NOTICE("completion history cleared"))
				return nil
			}

			if search != "" {
				entries, err := manager.Search(search, limit)
				if err != nil {
					return err
				}
				printEntries(entries)
				return nil
			}

			if directory != "" {
				entries, err := manager.RecentEntries(directory, limit)
				if err != nil {
					return err
				}
				printEntries(entries)
				return nil
			}

			directories, err := manager.RecentDirectories(limit)
			if err != nil {
				return err
			}
			for _, dir := range directories {
				fmt.Println(styles.DIRECTORY(dir))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "dir", "", "show entries that resolved to this directory")
	cmd.Flags().StringVar(&search, "search", "", "show entries whose line matches this text")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all history entries")

	return cmd
}

func printEntries(entries []history.Entry) {
	for _, entry := range entries {
		fmt.Printf("%s  %s  %s\n",
			styles.LOG(humanize.Time(entry.CreatedAt)),
			entry.Line,
			styles.DIRECTORY(entry.Directory),
		)
	}
}
