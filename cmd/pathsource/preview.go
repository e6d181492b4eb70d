package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pathsource/pkg/pathsource"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	var maxLines int

	cmd := &cobra.Command{
		Use:   "preview PATH",
		Short: "Print the documentation preview for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			source, err := newSource("")
			if err != nil {
				return err
			}

			if maxLines != 0 {
				opts := source.Options()
				opts.MaxPreviewLines = maxLines
				source, err = pathsource.New(opts, pathsource.SourceConfig{Logger: logger})
				if err != nil {
					return err
				}
			}

			doc := <-source.Documentation(cmd.Context(), pathsource.ItemData{
				Path: path,
				Kind: pathsource.ItemKindFile,
			})
			if doc.Err != nil {
				return doc.Err
			}

			fmt.Println(doc.Markdown)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLines, "max-lines", 0, "cap preview lines, -1 for unbounded (default: configured value)")

	return cmd
}
