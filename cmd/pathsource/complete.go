package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pathsource/internal/core"
	"pathsource/internal/filesystem"
	"pathsource/internal/history"
	"pathsource/internal/styles"
	"pathsource/pkg/lspitems"
	"pathsource/pkg/pathsource"
)

// NewCompleteCmd creates the complete command.
func NewCompleteCmd() *cobra.Command {
	var (
		line     string
		cursor   int
		cwd      string
		asJSON   bool
		noRecord bool
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "List completion candidates for the text before a cursor",
		Example: `  pathsource complete --line '../src/'
  pathsource complete --line 'see ~/.co' --json
  pathsource complete --line 'import "./lib/' --cursor 11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cursor >= 0 && cursor < len(line) {
				line = line[:cursor]
			}

			source, err := newSource(cwd)
			if err != nil {
				return err
			}

			reqCtx := pathsource.Context{
				LineBeforeCursor: line,
				Offset:           wordStart(line),
			}

			result := <-source.Complete(cmd.Context(), reqCtx)
			if result.Err != nil {
				return result.Err
			}

			if !noRecord {
				recordHistory(source, reqCtx, len(result.Items))
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(lspitems.FromResult(result))
			}

			for _, item := range result.Items {
				if item.Kind == pathsource.ItemKindFolder {
					fmt.Println(styles.DIRECTORY(item.Label))
				} else {
					fmt.Println(item.Label)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "text of the line up to the cursor")
	cmd.Flags().IntVar(&cursor, "cursor", -1, "cursor byte offset within the line (default: end of line)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "base directory for relative paths (default: working directory)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit an LSP completion list as JSON")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "skip recording the request in completion history")
	cmd.MarkFlagRequired("line")

	return cmd
}

// newSource builds a Source from the loaded configuration.
func newSource(cwd string) (*pathsource.Source, error) {
	provider := pathsource.DefaultOptions().CwdProvider
	if cwd != "" {
		provider = func(pathsource.Context) (string, error) {
			return cwd, nil
		}
	}

	return pathsource.New(cfg.SourceOptions(provider), pathsource.SourceConfig{
		FileSystem: filesystem.DefaultFileSystem{},
		Logger:     logger,
	})
}

// wordStart returns the byte offset where the word being completed begins,
// which is right after the last path separator.
func wordStart(line string) int {
	return strings.LastIndexAny(line, `/\`) + 1
}

// recordHistory stores the resolved request. History is an aid, never a
// failure mode: errors are logged and swallowed.
func recordHistory(source *pathsource.Source, reqCtx pathsource.Context, candidates int) {
	dirname, ok := source.Resolve(reqCtx)
	if !ok {
		return
	}

	manager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		logger.Warn("failed to open completion history", zap.Error(err))
		return
	}
	if _, err := manager.Record(reqCtx.LineBeforeCursor, dirname, candidates); err != nil {
		logger.Warn("failed to record completion history", zap.Error(err))
	}
}
