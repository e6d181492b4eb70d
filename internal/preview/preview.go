// Package preview reads the leading content of a file for documentation
// display without blocking the caller.
package preview

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"pathsource/internal/filesystem"
)

// readWindow bounds how much of a file is ever read for a preview.
const readWindow = 1024

// Placeholder texts shown instead of content. Unreadable and empty files are
// rendered the same way binary files are: a single display value, never an
// error surfaced to the user.
const (
	PlaceholderUnreadable = "cannot read this file"
	PlaceholderEmpty      = "empty file"
	PlaceholderBinary     = "binary file"
)

// Result is the preview of one file: either a binary placeholder or a
// bounded number of text lines.
type Result struct {
	Binary      bool
	Placeholder string
	Lines       []string
	Truncated   bool
}

// Outcome is the single value a preview worker delivers. Err is reserved for
// infrastructure failures; filesystem conditions become placeholder Results.
type Outcome struct {
	Result Result
	Err    error
}

// Config configures a Previewer.
type Config struct {
	// FileSystem defaults to filesystem.DefaultFileSystem.
	FileSystem filesystem.FileSystem

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// Previewer reads bounded file prefixes on worker goroutines.
type Previewer struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
}

// NewPreviewer creates a Previewer from cfg.
func NewPreviewer(cfg Config) *Previewer {
	fsys := cfg.FileSystem
	if fsys == nil {
		fsys = filesystem.DefaultFileSystem{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Previewer{fs: fsys, logger: logger}
}

// Preview reads up to the first kilobyte of path off the calling goroutine
// and delivers exactly one Outcome on the returned channel, then closes it.
// maxLines bounds the number of returned lines; a negative value means
// unbounded.
func (p *Previewer) Preview(ctx context.Context, path string, maxLines int) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		result := p.read(path, maxLines)
		if ctx.Err() != nil {
			out <- Outcome{Err: ctx.Err()}
			return
		}
		out <- Outcome{Result: result}
	}()
	return out
}

// read performs the blocking file read. Runs on the worker goroutine.
func (p *Previewer) read(path string, maxLines int) Result {
	file, err := p.fs.Open(path)
	if err != nil {
		p.logger.Debug("preview open failed", zap.String("path", path), zap.Error(err))
		return Result{Binary: true, Placeholder: PlaceholderUnreadable}
	}
	defer file.Close()

	buf := make([]byte, readWindow)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		p.logger.Debug("preview read failed", zap.String("path", path), zap.Error(err))
		return Result{Binary: true, Placeholder: PlaceholderUnreadable}
	}
	if n == 0 {
		return Result{Binary: true, Placeholder: PlaceholderEmpty}
	}
	window := buf[:n]
	if bytes.IndexByte(window, 0) >= 0 {
		return Result{Binary: true, Placeholder: PlaceholderBinary}
	}

	lines := strings.Split(string(window), "\n")
	truncated := false
	if maxLines >= 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}
	return Result{Lines: lines, Truncated: truncated}
}

// filetypes maps file extensions to the language tag used when fencing
// preview lines in markdown. Unknown extensions fall back to plain text.
var filetypes = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".py":    "python",
	".rb":    "ruby",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascriptreact",
	".tsx":   "typescriptreact",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".java":  "java",
	".kt":    "kotlin",
	".lua":   "lua",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "zsh",
	".fish":  "fish",
	".md":    "markdown",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".html":  "html",
	".css":   "css",
	".sql":   "sql",
	".proto": "proto",
	".vim":   "vim",
}

// Filetype classifies path's content type for syntax-aware display. The
// empty string means no classification is available and the content should
// be rendered as plain text.
func Filetype(path string) string {
	return filetypes[strings.ToLower(filepath.Ext(path))]
}
