// Package pathsource resolves the text before an editing cursor into
// filesystem completion candidates and file previews.
//
// A Source is the orchestrator the host completion engine talks to: it
// resolves the cursor text to a directory synchronously, then lists the
// directory and previews files on worker goroutines, delivering each result
// as a single self-contained value on a channel. The Source itself holds no
// per-request state, so a host may issue a new request before a prior
// worker finishes; stale results are simply left unread by the host.
package pathsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"pathsource/internal/filesystem"
	"pathsource/internal/preview"
	"pathsource/internal/resolver"
	"pathsource/internal/scanner"
)

// ItemKind tags a completion item as a file or a folder.
type ItemKind int

const (
	ItemKindFile ItemKind = iota
	ItemKindFolder
)

func (k ItemKind) String() string {
	if k == ItemKindFolder {
		return "folder"
	}
	return "file"
}

// Stat is the file metadata attached to an item's data bag.
type Stat = scanner.Stat

// ItemData is the opaque bag a host carries between the completion request
// and a later documentation request.
type ItemData struct {
	Path string
	Kind ItemKind
	Stat *Stat
}

// Item is one completion candidate in the shape host engines consume.
type Item struct {
	Label      string
	FilterText string
	InsertText string
	Kind       ItemKind
	Data       ItemData
}

// CompleteResult is the single value delivered for a completion request.
// Err is only set for infrastructure failures (a canceled request);
// filesystem conditions are absorbed into an empty item list.
type CompleteResult struct {
	Items []Item
	Err   error
}

// DocResult is the single value delivered for a documentation request.
type DocResult struct {
	// Markdown is the formatted documentation, empty when the item has none.
	Markdown string
	Err      error
}

// SourceConfig carries the collaborators a Source is built from. All fields
// are optional.
type SourceConfig struct {
	// FileSystem defaults to the OS filesystem.
	FileSystem filesystem.FileSystem

	// Logger is the diagnostic sink. If nil, a no-op logger is used.
	Logger *zap.Logger

	// Resolver overrides the platform-default path resolver.
	Resolver *resolver.Resolver
}

// Source orchestrates resolution, scanning, and previewing for one option
// set.
type Source struct {
	opts      Options
	resolver  *resolver.Resolver
	scanner   *scanner.Scanner
	previewer *preview.Previewer
	logger    *zap.Logger
}

// New validates opts and builds a Source. A validation failure is returned
// immediately; it is a programmer error, not a runtime condition the Source
// recovers from.
func New(opts Options, cfg SourceConfig) (*Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("pathsource: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	res := cfg.Resolver
	if res == nil {
		res = resolver.NewDefaultResolver(logger)
	}

	return &Source{
		opts:     opts,
		resolver: res,
		scanner: scanner.NewScanner(scanner.Config{
			FileSystem: cfg.FileSystem,
			Logger:     logger,
		}),
		previewer: preview.NewPreviewer(preview.Config{
			FileSystem: cfg.FileSystem,
			Logger:     logger,
		}),
		logger: logger,
	}, nil
}

// Options returns the validated option set the Source was built with.
func (s *Source) Options() Options {
	return s.opts
}

// Resolve runs only the synchronous resolution step: the directory that
// would be scanned for reqCtx, or false when the text resolves to nothing.
func (s *Source) Resolve(reqCtx Context) (string, bool) {
	cwd, err := s.opts.CwdProvider(reqCtx)
	if err != nil {
		s.logger.Debug("cwd provider failed", zap.Error(err))
		return "", false
	}
	return s.resolver.Resolve(resolver.Context{
		LineBeforeCursor: reqCtx.LineBeforeCursor,
		Offset:           reqCtx.Offset,
		Cwd:              cwd,
		LineComment:      reqCtx.LineComment,
	})
}

// Complete resolves reqCtx and lists the resolved directory, delivering
// exactly one CompleteResult on the returned channel. Unresolvable text and
// unreadable directories both deliver an empty result: to the host they are
// "no completions", not errors.
func (s *Source) Complete(ctx context.Context, reqCtx Context) <-chan CompleteResult {
	out := make(chan CompleteResult, 1)

	dirname, ok := s.Resolve(reqCtx)
	if !ok {
		out <- CompleteResult{}
		close(out)
		return out
	}

	req := scanner.Request{
		Dirname:            dirname,
		IncludeHidden:      s.includeHidden(reqCtx),
		TrailingSlash:      s.opts.TrailingSlash,
		LabelTrailingSlash: s.opts.LabelTrailingSlash,
		IgnorePatterns:     s.opts.compileIgnorePatterns(),
	}

	scanOut := s.scanner.Scan(ctx, req)
	go func() {
		defer close(out)
		res := <-scanOut
		if res.Err != nil {
			if ctx.Err() != nil {
				out <- CompleteResult{Err: res.Err}
				return
			}
			// Missing or unreadable directory: no completions.
			out <- CompleteResult{}
			return
		}
		out <- CompleteResult{Items: lo.Map(res.Candidates, func(c scanner.Candidate, _ int) Item {
			return toItem(c)
		})}
	}()
	return out
}

// Documentation previews the file behind data and formats it for display,
// delivering exactly one DocResult. Non-file items have no documentation.
func (s *Source) Documentation(ctx context.Context, data ItemData) <-chan DocResult {
	out := make(chan DocResult, 1)
	if data.Kind != ItemKindFile {
		out <- DocResult{}
		close(out)
		return out
	}

	previewOut := s.previewer.Preview(ctx, data.Path, s.opts.MaxPreviewLines)
	go func() {
		defer close(out)
		outcome := <-previewOut
		if outcome.Err != nil {
			out <- DocResult{Err: outcome.Err}
			return
		}
		out <- DocResult{Markdown: formatDocumentation(data, outcome.Result)}
	}()
	return out
}

// includeHidden decides the hidden-file policy for one request: the
// configured default, or a "." starting the word being completed (as in
// ".lo"), or a "." immediately before the cursor (a just-typed "." or
// "name/."). A zero Offset is indistinguishable from an unset one, so the
// word start is only trusted when it points past the line's last separator;
// otherwise it is derived from the line. Without this, any line that merely
// begins with "." ("./", "../src/") would reveal hidden files.
func (s *Source) includeHidden(reqCtx Context) bool {
	if s.opts.ShowHiddenByDefault {
		return true
	}
	line := reqCtx.LineBeforeCursor
	start := reqCtx.Offset
	if start <= 0 || start > len(line) {
		start = strings.LastIndexAny(line, `/\`) + 1
	}
	if start < len(line) && line[start] == '.' {
		return true
	}
	return strings.HasSuffix(line, ".")
}

func toItem(c scanner.Candidate) Item {
	kind := ItemKindFile
	if c.Kind == scanner.KindDirectory {
		kind = ItemKindFolder
	}
	return Item{
		Label:      c.DisplayLabel,
		FilterText: c.Word,
		InsertText: c.InsertText,
		Kind:       kind,
		Data: ItemData{
			Path: c.AbsolutePath,
			Kind: kind,
			Stat: c.Stat,
		},
	}
}

// formatDocumentation renders a preview as markdown: placeholder text as-is,
// file content inside a fence tagged with the detected filetype, followed by
// a humanized metadata line.
func formatDocumentation(data ItemData, result preview.Result) string {
	var b strings.Builder
	if result.Binary {
		b.WriteString(result.Placeholder)
	} else {
		b.WriteString("```")
		b.WriteString(preview.Filetype(data.Path))
		b.WriteString("\n")
		b.WriteString(strings.Join(result.Lines, "\n"))
		if result.Truncated {
			b.WriteString("\n…")
		}
		b.WriteString("\n```")
	}
	if data.Stat != nil {
		b.WriteString("\n\n")
		b.WriteString(humanize.Bytes(uint64(data.Stat.Size)))
		b.WriteString(", modified ")
		b.WriteString(humanize.Time(data.Stat.ModTime))
	}
	return b.String()
}
