// Package scanner lists a resolved directory as completion candidates without
// blocking the caller.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"pathsource/internal/filesystem"
)

// EntryKind classifies a candidate as a file or a directory.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
)

func (k EntryKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Stat is the subset of file metadata attached to a candidate.
type Stat struct {
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// Candidate is one completable directory entry. Candidates are created fresh
// per scan and carry no references back to the scanner.
type Candidate struct {
	// Name is the raw entry name with no path prefix.
	Name string

	Kind EntryKind

	// DisplayLabel is the name, with a trailing separator for directories
	// when so configured.
	DisplayLabel string

	// InsertText is the name, with a trailing separator for directories.
	InsertText string

	// Word is the text used for word-boundary filtering: the bare name,
	// unless trailing separators are configured to count.
	Word string

	AbsolutePath string

	// Stat is nil for a symlink whose target could not be statted.
	Stat *Stat
}

// Request captures everything a scan worker needs at spawn time. Workers
// never reach back into shared state.
type Request struct {
	// Dirname is the absolute directory to list.
	Dirname string

	// IncludeHidden includes dot-prefixed entries.
	IncludeHidden bool

	// TrailingSlash keeps the trailing separator on a directory's filter
	// word; insert text always carries it.
	TrailingSlash bool

	// LabelTrailingSlash appends a separator to directory display labels.
	LabelTrailingSlash bool

	// IgnorePatterns skips entries whose raw name matches any pattern.
	IgnorePatterns []glob.Glob
}

// Result is the single, self-contained value a scan worker delivers.
type Result struct {
	Candidates []Candidate
	Err        error
}

// Config configures a Scanner.
type Config struct {
	// FileSystem defaults to filesystem.DefaultFileSystem.
	FileSystem filesystem.FileSystem

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// Scanner lists directories on worker goroutines. It holds no per-request
// state; concurrent scans are independent.
type Scanner struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
}

// NewScanner creates a Scanner from cfg.
func NewScanner(cfg Config) *Scanner {
	fsys := cfg.FileSystem
	if fsys == nil {
		fsys = filesystem.DefaultFileSystem{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{fs: fsys, logger: logger}
}

// Scan lists req.Dirname off the calling goroutine and delivers exactly one
// Result on the returned channel, then closes it. A failed directory open is
// delivered as an error Result; the caller decides whether that is fatal
// (for completion it is not, it just means no candidates).
func (s *Scanner) Scan(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		candidates, err := s.scanDir(req)
		if ctx.Err() != nil {
			out <- Result{Err: ctx.Err()}
			return
		}
		out <- Result{Candidates: candidates, Err: err}
	}()
	return out
}

// scanDir performs the blocking directory walk. Runs on the worker goroutine;
// exported behavior is specified on Scan.
func (s *Scanner) scanDir(req Request) ([]Candidate, error) {
	entries, err := s.fs.ReadDir(req.Dirname)
	if err != nil {
		s.logger.Debug("directory listing failed",
			zap.String("dirname", req.Dirname),
			zap.Error(err))
		return nil, err
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !req.IncludeHidden && isHidden(name) {
			continue
		}
		if matchesAny(req.IgnorePatterns, name) {
			continue
		}

		fullPath := filepath.Join(req.Dirname, name)
		info, statErr := s.fs.Stat(fullPath)
		if statErr != nil {
			if entry.Type()&fs.ModeSymlink == 0 {
				// Entry vanished between list and stat.
				continue
			}
			// The link itself exists even though its target does not. Keep
			// it as a file candidate without a stat.
			if _, lstatErr := s.fs.Lstat(fullPath); lstatErr != nil {
				continue
			}
			candidates = append(candidates, makeCandidate(name, KindFile, fullPath, nil, req))
			continue
		}

		kind := KindFile
		if info.IsDir() {
			kind = KindDirectory
		}
		stat := &Stat{
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		}
		candidates = append(candidates, makeCandidate(name, kind, fullPath, stat, req))
	}

	return candidates, nil
}

func makeCandidate(name string, kind EntryKind, fullPath string, stat *Stat, req Request) Candidate {
	label, insert, word := name, name, name
	if kind == KindDirectory {
		insert = name + string(filepath.Separator)
		if req.TrailingSlash {
			word = insert
		}
		if req.LabelTrailingSlash {
			label = insert
		}
	}
	return Candidate{
		Name:         name,
		Kind:         kind,
		DisplayLabel: label,
		InsertText:   insert,
		Word:         word,
		AbsolutePath: fullPath,
		Stat:         stat,
	}
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

func matchesAny(patterns []glob.Glob, name string) bool {
	for _, p := range patterns {
		if p.Match(name) {
			return true
		}
	}
	return false
}
